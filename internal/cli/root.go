// filepath: internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"hkids/internal/config"
	"hkids/internal/logging"
)

var (
	// StartTime records when the process came up, for the info endpoint.
	StartTime time.Time

	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags
	cfgFile       string
	password      string
	port          int
	logLevel      string
	resetPassword bool
	jwtSecret     string
	uploadDir     string
	maxUploadSize string
	auditEnabled  bool
)

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "hkids",
	Short: "hKids API server",
	Long:  `REST backend for the hKids children's e-book platform: books, categories, kid profiles and parental controls.`,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	StartTime = time.Now()

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: HKIDS_CONFIG_PATH)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: HKIDS_LOG_LEVEL)")

	RootCmd.Flags().StringVar(&password, "password", "", "Password for the 'admin' user. (Env: HKIDS_PASSWORD)")
	RootCmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: HKIDS_PORT)")
	RootCmd.Flags().BoolVar(&resetPassword, "reset_pw", false, "If true, reset admin password on startup. (Env: HKIDS_RESET_PW=true)")
	RootCmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: HKIDS_JWT_SECRET)")
	RootCmd.Flags().StringVar(&uploadDir, "upload-dir", "", "Directory for uploaded files. (Env: HKIDS_UPLOAD_DIR)")
	RootCmd.Flags().StringVar(&maxUploadSize, "max-upload-size", "", "Per-file limit on book uploads (e.g. '50MB'). (Env: HKIDS_MAX_UPLOAD_SIZE)")
	RootCmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: HKIDS_AUDIT_ENABLED=true)")
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// 1. Check environment variable for config path first
	if envPath := os.Getenv("HKIDS_CONFIG_PATH"); envPath != "" && cfgFile == "config.toml" {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Create empty config if not found, rely on defaults/flags
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply overrides (env vars and CLI flags)
	applyOverrides(cfg, cmd)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize logging
	logging.Init(cfg.Logging.Level)

	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command) {
	getEnv := func(key string) string {
		return os.Getenv(key)
	}

	// --- 1. Environment variables ---
	if v := getEnv("HKIDS_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("HKIDS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getEnv("HKIDS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getEnv("HKIDS_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.AuditEnabled = b
		}
	}
	if v := getEnv("HKIDS_RESET_PW"); v == "true" {
		c.ResetAdminPassword = true
	}
	if v := getEnv("HKIDS_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("HKIDS_UPLOAD_DIR"); v != "" {
		c.Uploads.Dir = v
	}
	if v := getEnv("HKIDS_MAX_UPLOAD_SIZE"); v != "" {
		c.Uploads.MaxUploadSize = v
	}

	// --- 2. CLI flags (take precedence) ---
	if password != "" {
		c.AdminPassword = password
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if resetPassword {
		c.ResetAdminPassword = true
	}
	if jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if uploadDir != "" {
		c.Uploads.Dir = uploadDir
	}
	if maxUploadSize != "" {
		c.Uploads.MaxUploadSize = maxUploadSize
	}

	// --- 3. Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.JWT.AccessDurationMin == 0 {
		c.JWT.AccessDurationMin = 15
	}
	if c.JWT.RefreshDurationHours == 0 {
		c.JWT.RefreshDurationHours = 24 * 7
	}
	if c.AdminPassword == "" {
		c.AdminPassword = "admin123"
	}
}

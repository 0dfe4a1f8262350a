// filepath: cmd/hkids/main.go
package main

import (
	"hkids/internal/cli"

	// Import docs for Swagger
	_ "hkids/docs"
)

// @title hKids API
// @version 1.0.0
// @description REST backend for the hKids children's e-book platform.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT token.

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}

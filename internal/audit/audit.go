// filepath: internal/audit/audit.go
package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"hkids/internal/logging"
)

// LoggerAuditor writes audit events as structured log lines. It satisfies the
// services.Auditor interface.
type LoggerAuditor struct {
	enabled bool
}

// NewLoggerAuditor creates a new LoggerAuditor. When disabled it swallows
// every event.
func NewLoggerAuditor(enabled bool) *LoggerAuditor {
	return &LoggerAuditor{enabled: enabled}
}

// Log records an audit event if auditing is enabled.
func (a *LoggerAuditor) Log(ctx context.Context, action, actor, resource string, details map[string]interface{}) {
	if !a.enabled {
		return
	}

	fields := logrus.Fields{
		"audit":    true,
		"action":   action,
		"actor":    actor,
		"resource": resource,
	}
	for k, v := range details {
		fields["detail_"+k] = v
	}
	logging.Log.WithFields(fields).Info("audit event")
}

// filepath: internal/audit/audit_test.go
package audit

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hkids/internal/logging"
)

func TestLoggerAuditor_EmitsWhenEnabled(t *testing.T) {
	hook := test.NewLocal(logging.Log)
	defer hook.Reset()

	a := NewLoggerAuditor(true)
	a.Log(context.Background(), "book.create", "jane", "book:42",
		map[string]interface{}{"pages": 3})

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "book.create", entry.Data["action"])
	assert.Equal(t, "jane", entry.Data["actor"])
	assert.Equal(t, "book:42", entry.Data["resource"])
	assert.Equal(t, 3, entry.Data["detail_pages"])
}

func TestLoggerAuditor_SilentWhenDisabled(t *testing.T) {
	hook := test.NewLocal(logging.Log)
	defer hook.Reset()

	a := NewLoggerAuditor(false)
	a.Log(context.Background(), "book.create", "jane", "book:42", nil)

	assert.Empty(t, hook.Entries)
}

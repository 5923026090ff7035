package utils

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogEvent(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	LogEvent("company_login", map[string]interface{}{"company_id": uint(4)})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "company_login", entry.Data["event_type"])
	assert.Equal(t, uint(4), entry.Data["company_id"])
}

func TestLogError(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	LogError("request_failed", errors.New("connection refused"), map[string]interface{}{"path": "/api/companies"})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "request_failed", entry.Data["error_type"])
	assert.Equal(t, "connection refused", entry.Data["error"])
	assert.Equal(t, "/api/companies", entry.Data["path"])
}

func TestInitSentryWithoutDSN(t *testing.T) {
	flush, err := InitSentry("", "test")
	require.NoError(t, err)
	assert.NotPanics(t, flush)
}

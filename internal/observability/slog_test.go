package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/quill/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.LogLevel = "WARN"
	cfg.SecretKey = "super-secret-key-value"

	buf := &bytes.Buffer{}
	logger := newLogger(cfg, buf, false)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept", ConfigAttrs(cfg))
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "kept", record["msg"])
	assert.NotContains(t, buf.String(), cfg.SecretKey)

	group, ok := record["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "WARN", group["log_level"])
}

func TestNewLogger_Text(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := newLogger(config.Default(), buf, true)
	logger.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

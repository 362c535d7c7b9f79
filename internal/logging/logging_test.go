package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegraph/internal/config"
)

func TestNew_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(&buf, Options{Config: config.LoggingConfig{Level: config.LogLevelWarn, Format: config.LogFormatText}})
	defer func() { _ = closer.Close() }()

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := New(&buf, Options{Config: config.LoggingConfig{Level: config.LogLevelError}, Verbose: true})
	logger.Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}

func TestNew_JSONWithFileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "sitegraph.log")
	logger, closer := New(&buf, Options{Config: config.LoggingConfig{
		Level:     config.LogLevelInfo,
		Format:    config.LogFormatJSON,
		File:      path,
		MaxSizeMB: 1,
	}})

	logger.Info("built", "count", 3)
	require.NoError(t, closer.Close())

	assert.Contains(t, buf.String(), `"msg":"built"`)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"count":3`)
}

package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/curtains-backend/internal/config"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)

	log.WithField("cart_key", "cart:session:abc").Debug("read cart")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "read cart", entry["msg"])
	assert.Equal(t, "cart:session:abc", entry["cart_key"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewWithOutput_BadLevelFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(config.LoggingConfig{Level: "chatty", Format: "text"}, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	_, isText := log.Formatter.(*logrus.TextFormatter)
	assert.True(t, isText)
}

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONWithService(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := setup(&buf, slog.LevelInfo, "products-api")

	logger.Debug("hidden")
	slog.Info("product_created", "product_id", "p-1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "product_created", rec["msg"])
	assert.Equal(t, "products-api", rec["service"])
	assert.Equal(t, "p-1", rec["product_id"])
}

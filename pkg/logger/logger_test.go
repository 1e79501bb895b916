package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithCtxFallsBackToBase(t *testing.T) {
	assert.Same(t, L, WithCtx(context.Background()))

	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, custom, WithCtx(InjectLogger(context.Background(), custom)))
}

func TestNewUsesJSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "production").Info("order placed", "total", 944)
	assert.Contains(t, buf.String(), `"msg":"order placed"`)

	buf.Reset()
	New(&buf, "production").Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	log := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)).With("request_id", "r1")

	log.Info("cart updated")
	log.Warn("stock low")

	assert.Contains(t, a.String(), "cart updated")
	assert.Contains(t, a.String(), "request_id=r1")
	assert.NotContains(t, b.String(), "cart updated")
	assert.Contains(t, b.String(), "stock low")
}

func TestMongoDocumentLiftsIdentifiers(t *testing.T) {
	h := &MongoHandler{level: slog.LevelInfo}
	bound := h.WithAttrs([]slog.Attr{slog.String("request_id", "r9"), slog.String("user_id", "idp|1")}).(*MongoHandler)
	grouped := bound.WithGroup("order").(*MongoHandler)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "status changed", 0)
	rec.AddAttrs(slog.String("to", "shipped"))

	doc := grouped.document(rec)
	assert.Equal(t, "r9", doc.RequestID)
	assert.Equal(t, "idp|1", doc.UserID)
	assert.Equal(t, "shipped", doc.Attrs["order.to"])
	assert.Equal(t, "INFO", doc.Level)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

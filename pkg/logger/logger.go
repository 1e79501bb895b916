// Package logger provides the process-wide structured logger.
//
// Handlers and services log through WithCtx so every line carries the
// request_id and, once authenticated, the user_id:
//
//	log := logger.WithCtx(ctx)
//	log.Info("order placed", "order_number", o.OrderNumber)
//	// → level=INFO msg="order placed" request_id=a1b2 user_id=idp|42 order_number=UNI-...
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/unistore/config"
)

var L *slog.Logger

func init() {
	L = New(os.Stdout, config.AppEnv())
	slog.SetDefault(L)
}

// New builds the console logger: JSON at info level in production, text at
// debug level everywhere else.
func New(w io.Writer, env string) *slog.Logger {
	return slog.New(consoleHandler(w, env))
}

func consoleHandler(w io.Writer, env string) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Setup replaces L with a console logger for env and, when mongoURI is
// set, fans records out to the app_logs collection as well. The returned
// func flushes and closes the Mongo sink.
func Setup(env, mongoURI, mongoDB string) (func(), error) {
	console := consoleHandler(os.Stdout, env)
	if mongoURI == "" {
		L = slog.New(console)
		slog.SetDefault(L)
		return func() {}, nil
	}

	level := slog.LevelDebug
	if env == "production" || env == "prod" {
		level = slog.LevelInfo
	}
	sink, err := NewMongoHandler(mongoURI, mongoDB, "app_logs", level)
	if err != nil {
		L = slog.New(console)
		slog.SetDefault(L)
		return func() {}, fmt.Errorf("logger: mongo sink: %w", err)
	}

	L = slog.New(NewMultiHandler(console, sink))
	slog.SetDefault(L)
	return sink.Close, nil
}

type ctxKey struct{}

// WithCtx returns the per-request logger injected by middleware, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log in ctx for WithCtx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	resetLogger(t)
	core, logs := observer.New(zapcore.DebugLevel)
	log = zap.New(core)
	return logs
}

func TestGormLogger_SkipsRecordNotFound(t *testing.T) {
	logs := observe(t)
	l := NewGormLogger(0)

	called := false
	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return `SELECT * FROM "users" WHERE email = ?`, 0
	}, gorm.ErrRecordNotFound)

	if called || logs.Len() != 0 {
		t.Fatalf("record not found should not be logged, got %d entries", logs.Len())
	}
}

func TestGormLogger_LogsFailuresAndSlowQueries(t *testing.T) {
	logs := observe(t)
	l := NewGormLogger(time.Millisecond)
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-9")

	l.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT INTO payments", 0 }, errors.New("boom"))
	l.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 1 }, nil)

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.ErrorLevel || entries[0].ContextMap()["request_id"] != "req-9" {
		t.Fatalf("unexpected failure entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].Message != "Slow query" {
		t.Fatalf("unexpected slow query entry: %+v", entries[1])
	}
}

func TestGormLogger_LogModeAndParams(t *testing.T) {
	logs := observe(t)
	l := NewGormLogger(0)

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(context.Background(), time.Now(), func() (string, int64) { return "x", 0 }, errors.New("boom"))
	silent.Warn(context.Background(), "hidden %d", 1)
	if logs.Len() != 0 {
		t.Fatalf("silent mode logged %d entries", logs.Len())
	}

	l.Warn(context.Background(), "visible %d", 2)
	l.Info(context.Background(), "below level")
	if logs.Len() != 1 || logs.All()[0].Message != "visible 2" {
		t.Fatalf("unexpected entries: %+v", logs.All())
	}

	sql, params := l.ParamsFilter(context.Background(), "SELECT ?", "alice1")
	if sql != "SELECT ?" || params != nil {
		t.Fatalf("params were not dropped: %q %v", sql, params)
	}
}

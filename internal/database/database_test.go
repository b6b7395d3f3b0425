package database_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"pluginsummary/internal/database"
	"testing"
)

func newTestDatabase(t *testing.T, dbPath string) *database.Database {
	t.Helper()

	db, err := database.New(context.Background(), dbPath, slog.Default())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return db
}

func TestSettingRoundTrip(t *testing.T) {
	db := newTestDatabase(t, filepath.Join(t.TempDir(), "db.sqlite"))
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()

	if _, ok, err := db.GetSetting(ctx, "openai_api_key"); err != nil || ok {
		t.Fatalf("expected missing setting, got ok=%v err=%v", ok, err)
	}

	if err := db.SetSetting(ctx, "openai_api_key", "sk-first"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := db.SetSetting(ctx, "openai_api_key", "sk-second"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	value, ok, err := db.GetSetting(ctx, "openai_api_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ok || value != "sk-second" {
		t.Fatalf("unexpected setting: ok=%v value=%q", ok, value)
	}
}

func TestSettingEmptyKey(t *testing.T) {
	db := newTestDatabase(t, filepath.Join(t.TempDir(), "db.sqlite"))
	t.Cleanup(func() { _ = db.Close() })

	if err := db.SetSetting(context.Background(), "  ", "value"); err == nil {
		t.Fatalf("expected error for empty key")
	}

	if _, _, err := db.GetSetting(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty key")
	}
}

func TestSettingSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db.sqlite")
	ctx := context.Background()

	first := newTestDatabase(t, dbPath)
	if err := first.SetSetting(ctx, "openai_api_key", "sk-persisted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	second := newTestDatabase(t, dbPath)
	t.Cleanup(func() { _ = second.Close() })

	value, ok, err := second.GetSetting(ctx, "openai_api_key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ok || value != "sk-persisted" {
		t.Fatalf("unexpected setting after reopen: ok=%v value=%q", ok, value)
	}
}

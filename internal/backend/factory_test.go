package backend

import (
	"context"
	"testing"
)

func TestBackendTypeIsValid(t *testing.T) {
	tests := []struct {
		bt   BackendType
		want bool
	}{
		{SQLiteBackend, true},
		{MemoryBackend, true},
		{BackendType("sheets"), false},
		{BackendType(""), false},
	}

	for _, tt := range tests {
		if got := tt.bt.IsValid(); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.bt, got, tt.want)
		}
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	factory := NewFactory(nil)

	result, err := factory.CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend failed: %v", err)
	}
	if result.Backend == nil {
		t.Fatal("expected a backend instance")
	}
	if result.Cleanup != nil {
		t.Error("memory backend should not need cleanup")
	}
}

func TestCreateBackendInvalidType(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Error("expected error for unsupported backend type")
	}
}

func TestCreateSQLiteBackendRequiresPath(t *testing.T) {
	factory := NewFactory(nil)

	if _, err := factory.CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Error("expected error when SQLite path is empty")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	factory := NewFactory(nil)
	dbPath := t.TempDir() + "/spendwise.db"

	result, err := factory.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: dbPath,
	})
	if err != nil {
		t.Fatalf("CreateBackend failed: %v", err)
	}
	defer result.Cleanup()

	if result.Backend == nil {
		t.Fatal("expected a backend instance")
	}
}

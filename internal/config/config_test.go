// README: Config loading tests.
package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CANTEEN_STORAGE", "")
	t.Setenv("CANTEEN_HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", got.HTTPAddr)
	}
	if got.Storage != StorageMemory {
		t.Errorf("Storage = %q, want memory", got.Storage)
	}
	if got.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", got.LogLevel)
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	t.Setenv("CANTEEN_STORAGE", StoragePostgres)
	if _, err := Load(); err == nil {
		t.Fatal("postgres without DSN must fail")
	}

	t.Setenv("CANTEEN_DB_DSN", "postgres://localhost/canteen")
	got, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DatabaseDSN != "postgres://localhost/canteen" {
		t.Errorf("DatabaseDSN = %q", got.DatabaseDSN)
	}
}

func TestLoadFirestoreRequiresProject(t *testing.T) {
	t.Setenv("CANTEEN_STORAGE", StorageFirestore)
	if _, err := Load(); err == nil {
		t.Fatal("firestore without project id must fail")
	}

	t.Setenv("CANTEEN_FIREBASE_PROJECT_ID", "canteen-demo")
	if _, err := Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("CANTEEN_STORAGE", "tape")
	if _, err := Load(); err == nil {
		t.Fatal("unknown storage must fail")
	}
}

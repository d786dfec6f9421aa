package config_test

import (
	"testing"

	"github.com/Unholster/eventsourcing/config"
)

func TestParseBool_AcceptsTwelveTokens(t *testing.T) {
	truthy := []string{"y", "yes", "t", "true", "on", "1"}
	falsy := []string{"n", "no", "f", "false", "off", "0"}

	for _, token := range truthy {
		value, err := config.ParseBool(token)
		if err != nil {
			t.Errorf("ParseBool(%q): unexpected error %v", token, err)
		}
		if !value {
			t.Errorf("ParseBool(%q) = false, want true", token)
		}
	}
	for _, token := range falsy {
		value, err := config.ParseBool(token)
		if err != nil {
			t.Errorf("ParseBool(%q): unexpected error %v", token, err)
		}
		if value {
			t.Errorf("ParseBool(%q) = true, want false", token)
		}
	}
}

func TestParseBool_RejectsUnrecognizedTokens(t *testing.T) {
	for _, token := range []string{"", "maybe", "2", "ok", "nope", "yup"} {
		if _, err := config.ParseBool(token); err == nil {
			t.Errorf("ParseBool(%q): expected an error", token)
		}
	}
}

func TestParseBool_CaseInsensitive(t *testing.T) {
	value, err := config.ParseBool("TRUE")
	if err != nil {
		t.Fatalf("ParseBool(\"TRUE\"): %v", err)
	}
	if !value {
		t.Error("expected TRUE to parse as truthy")
	}
}

func envFromMap(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad_DefaultsToPlainMemory(t *testing.T) {
	factory, err := config.Load(envFromMap(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if factory.Backend != config.PlainMemory {
		t.Fatalf("expected PlainMemory backend, got %s", factory.Backend)
	}
	if factory.SnapshottingEnabled {
		t.Fatal("expected snapshotting disabled by default")
	}
}

func TestLoad_Sqlite(t *testing.T) {
	factory, err := config.Load(envFromMap(map[string]string{
		"INFRASTRUCTURE_FACTORY":  "sqlite",
		"SQLITE_PATH":             "/tmp/events.db",
		"SQLITE_CREATE_TABLE":     "yes",
		"IS_SNAPSHOTTING_ENABLED": "true",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if factory.Backend != config.Sqlite {
		t.Fatalf("expected Sqlite backend, got %s", factory.Backend)
	}
	if factory.Sqlite.Path != "/tmp/events.db" {
		t.Errorf("expected path /tmp/events.db, got %q", factory.Sqlite.Path)
	}
	if !factory.Sqlite.CreateTable {
		t.Error("expected CreateTable true")
	}
	if !factory.SnapshottingEnabled {
		t.Error("expected snapshotting enabled")
	}
}

func TestLoad_Postgres(t *testing.T) {
	factory, err := config.Load(envFromMap(map[string]string{
		"INFRASTRUCTURE_FACTORY": "postgres",
		"POSTGRES_HOST":          "db.internal",
		"POSTGRES_DATABASE":      "events",
		"POSTGRES_USER":          "writer",
		"POSTGRES_PASSWORD":      "secret",
		"CIPHER_TOPIC":           "chacha20poly1305",
		"CIPHER_KEY":             "0123456789abcdef0123456789abcdef",
		"COMPRESSOR_TOPIC":       "zstd",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if factory.Backend != config.Postgres {
		t.Fatalf("expected Postgres backend, got %s", factory.Backend)
	}
	if factory.Postgres.Host != "db.internal" || factory.Postgres.Database != "events" {
		t.Errorf("unexpected postgres config: %+v", factory.Postgres)
	}
	if factory.CipherTopic != "chacha20poly1305" || factory.CompressorTopic != "zstd" {
		t.Errorf("unexpected pipeline selection: cipher=%q compressor=%q", factory.CipherTopic, factory.CompressorTopic)
	}
}

func TestLoad_MySQL(t *testing.T) {
	factory, err := config.Load(envFromMap(map[string]string{
		"INFRASTRUCTURE_FACTORY": "mysql",
		"MYSQL_HOST":             "db.internal",
		"MYSQL_DATABASE":         "events",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if factory.Backend != config.MySQL {
		t.Fatalf("expected MySQL backend, got %s", factory.Backend)
	}
	if factory.MySQL.Host != "db.internal" {
		t.Errorf("expected host db.internal, got %q", factory.MySQL.Host)
	}
}

func TestLoad_RejectsUnrecognizedBackend(t *testing.T) {
	_, err := config.Load(envFromMap(map[string]string{
		"INFRASTRUCTURE_FACTORY": "cockroachdb",
	}))
	if err == nil {
		t.Fatal("expected an error for an unrecognized backend")
	}
}

func TestLoad_RejectsMalformedSnapshottingFlag(t *testing.T) {
	_, err := config.Load(envFromMap(map[string]string{
		"IS_SNAPSHOTTING_ENABLED": "sometimes",
	}))
	if err == nil {
		t.Fatal("expected an error for a malformed IS_SNAPSHOTTING_ENABLED value")
	}
}

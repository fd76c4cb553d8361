package db

import (
	"testing"

	"procurement/pkg/config"
)

func TestConnStrings(t *testing.T) {
	cfg := config.Config{DB: config.DBConfig{User: "u", Password: "p", Host: "h", Port: "5432", Name: "n"}}
	if got := RuntimeConnString(cfg); got != "postgres://u:p@h:5432/n?sslmode=disable" {
		t.Fatalf("unexpected dsn %q", got)
	}
	cfg.DatabaseURL = "postgres://pooler/db?pgbouncer=true"
	if got := MigrationConnString(cfg); got != cfg.DatabaseURL {
		t.Fatalf("expected runtime url fallback, got %q", got)
	}
	cfg.DirectURL = "postgres://direct/db"
	if got := MigrationConnString(cfg); got != cfg.DirectURL {
		t.Fatalf("expected direct url, got %q", got)
	}
}

func TestMigrate_UnknownDirection(t *testing.T) {
	if err := Migrate("file:///nonexistent", config.Config{}, Direction("sideways")); err == nil {
		t.Fatalf("expected error")
	}
}

package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations should validate: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "not_a_migration.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected filename validation error")
	}
}

func TestValidateDirRejectsMissingDownSection(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "20250101000000_missing_down.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected missing down-section error")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Favorites Count!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	base := filepath.Base(path)
	if !sqlFileRe.MatchString(base) {
		t.Fatalf("created migration %q does not match naming convention", base)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

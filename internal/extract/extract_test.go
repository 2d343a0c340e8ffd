package extract

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(dir, "bundle.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range files {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return zipPath
}

func TestExtractNonZipPassesThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("a,b,c\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	res, err := Extract(path, []string{".csv"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.Payload != path {
		t.Errorf("Payload = %q, want %q", res.Payload, path)
	}
	if len(res.CleanupPaths) != 1 || res.CleanupPaths[0] != path {
		t.Errorf("CleanupPaths = %v", res.CleanupPaths)
	}
}

func TestExtractZipSelectsTargetExtension(t *testing.T) {
	dir := t.TempDir()
	zipPath := writeZip(t, dir, map[string]string{
		"README.txt":    "ignore me",
		"standard.json": `{"hospital_name":"x"}`,
	})

	res, err := Extract(zipPath, []string{".json"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if filepath.Ext(res.Payload) != ".json" {
		t.Errorf("Payload = %q, want a .json file", res.Payload)
	}
	if len(res.CleanupPaths) < 2 {
		t.Errorf("expected cleanup paths to include the zip and extracted entries, got %v", res.CleanupPaths)
	}
}

func TestExtractZipNoMatchingExtensionReturnsErrNoPayload(t *testing.T) {
	dir := t.TempDir()
	zipPath := writeZip(t, dir, map[string]string{
		"README.txt": "ignore me",
	})

	_, err := Extract(zipPath, []string{".json", ".csv"})
	if !errors.Is(err, ErrNoPayload) {
		t.Fatalf("expected ErrNoPayload, got %v", err)
	}
}

func TestExtractZipNilExtensionsPicksFirstFile(t *testing.T) {
	dir := t.TempDir()
	zipPath := writeZip(t, dir, map[string]string{
		"only.dat": "contents",
	})

	res, err := Extract(zipPath, nil)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if filepath.Base(res.Payload) != "only.dat" {
		t.Errorf("Payload = %q", res.Payload)
	}
}

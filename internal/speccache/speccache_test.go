package speccache

import (
	"os"
	"path/filepath"
	"testing"
)

const testSpecJSON = `{
  "unicode": "15.0.0",
  "ignored": [173],
  "mapped": [[65, [97]]],
  "cm": [],
  "emoji": [[128512]],
  "nfc_check": [],
  "fenced": [],
  "groups": [{"name": "Latin", "primary": [97, 98, 99], "secondary": []}],
  "whole_map": {},
  "nsm": [],
  "nsm_max": 4
}`

func writeTestSpec(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.json")
	if err := os.WriteFile(path, []byte(testSpecJSON), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_NoCache(t *testing.T) {
	specPath := writeTestSpec(t)
	spec, err := Load(specPath, "")
	if err != nil {
		t.Fatal(err)
	}
	if spec.UnicodeVersion != "15.0.0" {
		t.Errorf("UnicodeVersion: got %q", spec.UnicodeVersion)
	}
}

func TestLoad_PopulatesAndHitsCache(t *testing.T) {
	specPath := writeTestSpec(t)
	dbPath := filepath.Join(t.TempDir(), "spec-cache.db")

	spec1, err := Load(specPath, dbPath)
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dbPath)
	if err != nil || info.Size() == 0 {
		t.Fatalf("expected non-empty cache file, stat err=%v", err)
	}

	spec2, err := Load(specPath, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if spec2.UnicodeVersion != spec1.UnicodeVersion {
		t.Errorf("UnicodeVersion mismatch after cache hit: %q vs %q", spec2.UnicodeVersion, spec1.UnicodeVersion)
	}
	if !spec2.Valid['a'] {
		t.Error("expected 'a' to remain valid after round-trip through the cache")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json"), ""); err == nil {
		t.Error("expected error for missing spec file")
	}
}

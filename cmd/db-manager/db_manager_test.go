package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"bostoninfo/database"
)

// createTestLookupDB создает журнал с несколькими записями
func createTestLookupDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lookups.db")
	db, err := database.NewLookupDB(path)
	if err != nil {
		t.Fatalf("Failed to create lookup db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	records := []*database.LookupRecord{
		{Source: database.LookupSourceSkill, Query: "30 beach st", Outcome: database.LookupOutcomeSingle,
			Addresses: []string{"30 Beach St, Boston 02111"}},
		{Source: database.LookupSourceAPI, Query: "1 main st", Outcome: database.LookupOutcomeAmbiguous,
			Addresses: []string{"1 Main St, Charlestown 02129", "1 Main St, Boston 02215"}},
	}
	for _, r := range records {
		if err := db.RecordLookup(ctx, r); err != nil {
			t.Fatalf("RecordLookup failed: %v", err)
		}
	}
	return path
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"unknown"}, {"list", "--bogus"}} {
		err := run(context.Background(), args, &bytes.Buffer{})
		if !errors.Is(err, errUsage) {
			t.Errorf("run(%v) = %v, want usage error", args, err)
		}
	}
}

func TestRun_List(t *testing.T) {
	path := createTestLookupDB(t)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"list", "--db=" + path, "--outcome=ambiguous"}, &out); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if !strings.Contains(out.String(), "1 Main St, Charlestown 02129; 1 Main St, Boston 02215") {
		t.Errorf("list output missing ambiguous lookup:\n%s", out.String())
	}
	if strings.Contains(out.String(), "30 beach st") {
		t.Errorf("list output should be filtered by outcome:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Total: 1") {
		t.Errorf("list output missing total:\n%s", out.String())
	}
}

func TestRun_MissingDatabase(t *testing.T) {
	err := run(context.Background(), []string{"stats", "--db=" + filepath.Join(t.TempDir(), "none.db")}, &bytes.Buffer{})
	if err == nil || errors.Is(err, errUsage) {
		t.Fatalf("expected missing database error, got %v", err)
	}
}

func TestRun_Stats(t *testing.T) {
	path := createTestLookupDB(t)

	var out bytes.Buffer
	if err := run(context.Background(), []string{"stats", "--db=" + path}, &out); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out.String(), `"total": 2`) {
		t.Errorf("unexpected stats output:\n%s", out.String())
	}
}

func TestRun_ExportAndBackup(t *testing.T) {
	path := createTestLookupDB(t)
	dir := t.TempDir()

	var out bytes.Buffer
	xlsxPath := filepath.Join(dir, "lookups.xlsx")
	if err := run(context.Background(), []string{"export", "--db=" + path, "--output=" + xlsxPath}, &out); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out.String(), "Exported 2 lookups") {
		t.Errorf("unexpected export output: %s", out.String())
	}

	backupPath := filepath.Join(dir, "backup")
	if err := run(context.Background(), []string{"backup", "--db=" + path, "--output=" + backupPath}, &out); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	archive, err := zip.OpenReader(backupPath + ".zip")
	if err != nil {
		t.Fatalf("Failed to open backup: %v", err)
	}
	defer archive.Close()
	if len(archive.File) != 1 || archive.File[0].Name != "lookups.db" {
		t.Errorf("unexpected archive contents: %v", archive.File)
	}
}

package services

import (
	"database/sql/driver"
	"regexp"
	"testing"
)

func TestGenerateDOIFormat(t *testing.T) {
	t.Setenv("DOI_PREFIX", "")

	original := doiSuffixGenerator
	doiSuffixGenerator = func() string { return "abc123" }
	defer func() { doiSuffixGenerator = original }()

	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `articles` WHERE doi"),
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	doi, err := GenerateDOI(gormDB, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doi != "10.1234/journal.2026.abc123" {
		t.Errorf("doi = %q, want %q", doi, "10.1234/journal.2026.abc123")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGenerateDOIRetriesOnCollision(t *testing.T) {
	t.Setenv("DOI_PREFIX", "10.5555/test")

	suffixes := []string{"taken1", "fresh2"}
	original := doiSuffixGenerator
	doiSuffixGenerator = func() string {
		next := suffixes[0]
		suffixes = suffixes[1:]
		return next
	}
	defer func() { doiSuffixGenerator = original }()

	countPattern := regexp.MustCompile("SELECT count\\(\\*\\) FROM `articles` WHERE doi")
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: countPattern,
			args:    []driver.Value{"10.5555/test.2026.taken1"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: countPattern,
			args:    []driver.Value{"10.5555/test.2026.fresh2"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(0)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	doi, err := GenerateDOI(gormDB, 2026)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doi != "10.5555/test.2026.fresh2" {
		t.Errorf("doi = %q, want the retried suffix", doi)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestGenerateDOIGivesUpAfterRepeatedCollisions(t *testing.T) {
	t.Setenv("DOI_PREFIX", "")

	original := doiSuffixGenerator
	doiSuffixGenerator = func() string { return "always" }
	defer func() { doiSuffixGenerator = original }()

	countPattern := regexp.MustCompile("SELECT count\\(\\*\\) FROM `articles` WHERE doi")
	steps := make([]*queryStep, 0, 5)
	for i := 0; i < 5; i++ {
		steps = append(steps, &queryStep{
			kind:    kindQuery,
			pattern: countPattern,
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		})
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	if _, err := GenerateDOI(gormDB, 2026); err == nil {
		t.Fatal("expected an error after exhausting collision retries")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDOIExists(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT count\\(\\*\\) FROM `articles` WHERE doi"),
			args:    []driver.Value{"10.1234/journal.2025.f00daa"},
			columns: []string{"count(*)"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	exists, err := DOIExists(gormDB, "10.1234/journal.2025.f00daa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected the DOI to exist")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

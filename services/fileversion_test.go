package services

import (
	"database/sql/driver"
	"regexp"
	"testing"

	"gorm.io/gorm"

	"journal-management-api/models"
)

func TestInsertFileVersionAssignsNextNumber(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT COALESCE\\(MAX\\(version_number\\), 0\\) AS max_version FROM `file_versions` WHERE article_id = \\? FOR UPDATE"),
			columns: []string{"max_version"},
			rows:    [][]driver.Value{{int64(2)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `file_versions`"),
			result:  scriptedResult{lastInsertID: 10, rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	version := models.FileVersion{
		ArticleID:  3,
		FileURL:    "uploads/articles/3/manuscript.pdf",
		UploadedBy: 2,
	}
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return InsertFileVersion(tx, &version)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if version.VersionNumber != 3 {
		t.Errorf("version number = %d, want 3", version.VersionNumber)
	}
	if version.UploadedAt.IsZero() {
		t.Error("expected uploaded_at to be set")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestInsertFileVersionStartsAtOne(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("COALESCE\\(MAX\\(version_number\\), 0\\)"),
			columns: []string{"max_version"},
			rows:    [][]driver.Value{{int64(0)}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `file_versions`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	version := models.FileVersion{ArticleID: 8, FileURL: "uploads/articles/8/manuscript.pdf", UploadedBy: 5}
	err := gormDB.Transaction(func(tx *gorm.DB) error {
		return InsertFileVersion(tx, &version)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if version.VersionNumber != 1 {
		t.Errorf("version number = %d, want 1", version.VersionNumber)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

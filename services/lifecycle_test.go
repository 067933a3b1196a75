package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"gorm.io/gorm"

	"journal-management-api/models"
)

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to string }{
		{StatusDraft, StatusSubmitted},
		{StatusSubmitted, StatusUnderReview},
		{StatusSubmitted, StatusDeskRejected},
		{StatusSubmitted, StatusRejected},
		{StatusUnderReview, StatusRevisionRequested},
		{StatusUnderReview, StatusAccepted},
		{StatusUnderReview, StatusRejected},
		{StatusRevisionRequested, StatusUnderReview},
		{StatusAccepted, StatusInProduction},
		{StatusAccepted, StatusPublished},
		{StatusInProduction, StatusCopyediting},
		{StatusCopyediting, StatusProofreading},
		{StatusProofreading, StatusTypesetting},
		{StatusTypesetting, StatusReadyForPublication},
		{StatusReadyForPublication, StatusPublished},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to string }{
		{StatusDraft, StatusUnderReview},
		{StatusDraft, StatusPublished},
		{StatusSubmitted, StatusAccepted},
		{StatusRejected, StatusSubmitted},
		{StatusDeskRejected, StatusUnderReview},
		{StatusPublished, StatusUnderReview},
		{StatusUnderReview, StatusSubmitted},
		{StatusCopyediting, StatusTypesetting},
		{"", StatusSubmitted},
		{StatusSubmitted, ""},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestNextProductionStage(t *testing.T) {
	order := []string{
		StatusAccepted,
		StatusInProduction,
		StatusCopyediting,
		StatusProofreading,
		StatusTypesetting,
		StatusReadyForPublication,
	}
	for i := 0; i < len(order)-1; i++ {
		next, ok := NextProductionStage(order[i])
		if !ok || next != order[i+1] {
			t.Errorf("NextProductionStage(%s) = %q, %v; want %q, true", order[i], next, ok, order[i+1])
		}
	}

	for _, status := range []string{StatusDraft, StatusSubmitted, StatusUnderReview, StatusReadyForPublication, StatusPublished, StatusRejected} {
		if _, ok := NextProductionStage(status); ok {
			t.Errorf("NextProductionStage(%s) should not advance", status)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{StatusRejected, StatusDeskRejected, StatusPublished} {
		if !IsTerminal(status) {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	for _, status := range []string{StatusDraft, StatusSubmitted, StatusUnderReview, StatusAccepted} {
		if IsTerminal(status) {
			t.Errorf("expected %s not to be terminal", status)
		}
	}
}

func TestTransitionSubmissionWritesStatusDecisionAndOutbox(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `submissions` WHERE submission_id"),
			columns: []string{"submission_id", "article_id", "submitter_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), int64(2), StatusSubmitted}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `submissions` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `articles` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `editorial_decisions`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `email_outbox`"),
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	extraCalled := false
	updated, err := TransitionSubmission(gormDB, 7, StatusUnderReview, TransitionOptions{
		EditorID:          9,
		DecisionType:      DecisionRevisionSubmitted,
		DecisionRationale: "responded to reviewer comments",
		Emails: []OutboxEmail{{
			Recipient: "author@example.org",
			Subject:   "Submission update",
			BodyHTML:  "<p>update</p>",
		}},
		Extra: func(tx *gorm.DB, submission *models.Submission) error {
			extraCalled = true
			if submission.SubmissionID != 7 {
				t.Errorf("extra hook got submission %d, want 7", submission.SubmissionID)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !extraCalled {
		t.Fatal("extra hook was not called")
	}
	if updated.Status != StatusUnderReview {
		t.Errorf("returned status = %q, want %q", updated.Status, StatusUnderReview)
	}
	if updated.UpdateAt == nil {
		t.Error("expected update_at to be set")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionSubmissionRejectsIllegalEdge(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `submissions` WHERE submission_id"),
			columns: []string{"submission_id", "article_id", "submitter_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), int64(2), StatusPublished}},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	_, err := TransitionSubmission(gormDB, 7, StatusUnderReview, TransitionOptions{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestTransitionSubmissionRollsBackWhenExtraFails(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `submissions` WHERE submission_id"),
			columns: []string{"submission_id", "article_id", "submitter_id", "status"},
			rows:    [][]driver.Value{{int64(7), int64(3), int64(2), StatusSubmitted}},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `submissions` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `articles` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	boom := errors.New("boom")
	_, err := TransitionSubmission(gormDB, 7, StatusUnderReview, TransitionOptions{
		Extra: func(tx *gorm.DB, submission *models.Submission) error {
			return boom
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected extra hook error to propagate, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

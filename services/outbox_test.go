package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestEnqueueEmailSkipsBlankRecipient(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	if err := EnqueueEmail(gormDB, "   ", "Subject", "<p>body</p>"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDispatchPendingMarksSent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `email_outbox` WHERE status = \\? AND next_attempt_at <= \\?"),
			columns: []string{"outbox_id", "recipient_email", "subject", "body_html", "status", "attempts", "next_attempt_at", "created_at"},
			rows: [][]driver.Value{
				{int64(1), "author@example.org", "Submission received", "<p>hi</p>", OutboxPending, int64(0), now.Add(-time.Minute), now.Add(-time.Minute)},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	var sentTo []string
	worker := &OutboxWorker{
		db: gormDB,
		send: func(to []string, subject, html string) error {
			sentTo = append(sentTo, to...)
			return nil
		},
		batchSize:   20,
		maxAttempts: 5,
	}

	sent, err := worker.DispatchPending(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("sent = %d, want 1", sent)
	}
	if len(sentTo) != 1 || sentTo[0] != "author@example.org" {
		t.Errorf("sent to %v, want the outbox recipient", sentTo)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDispatchPendingBacksOffOnFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `email_outbox` WHERE status = \\? AND next_attempt_at <= \\?"),
			columns: []string{"outbox_id", "recipient_email", "subject", "body_html", "status", "attempts", "next_attempt_at", "created_at"},
			rows: [][]driver.Value{
				{int64(2), "author@example.org", "Subject", "<p>hi</p>", OutboxPending, int64(0), now, now},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	worker := &OutboxWorker{
		db: gormDB,
		send: func(to []string, subject, html string) error {
			return errors.New("smtp unavailable")
		},
		batchSize:   20,
		maxAttempts: 5,
	}

	sent, err := worker.DispatchPending(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestDispatchPendingMarksFailedAfterAttemptBudget(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT \\* FROM `email_outbox` WHERE status = \\? AND next_attempt_at <= \\?"),
			columns: []string{"outbox_id", "recipient_email", "subject", "body_html", "status", "attempts", "next_attempt_at", "created_at"},
			rows: [][]driver.Value{
				{int64(3), "author@example.org", "Subject", "<p>hi</p>", OutboxPending, int64(4), now, now},
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `email_outbox` SET"),
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	worker := &OutboxWorker{
		db: gormDB,
		send: func(to []string, subject, html string) error {
			return errors.New("smtp unavailable")
		},
		batchSize:   20,
		maxAttempts: 5,
	}

	sent, err := worker.DispatchPending(now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 0 {
		t.Errorf("sent = %d, want 0", sent)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRetryBackoff(t *testing.T) {
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 2 * time.Minute},
		{2, 4 * time.Minute},
		{3, 8 * time.Minute},
		{5, 32 * time.Minute},
		{6, time.Hour},
		{10, time.Hour},
	}
	for _, tc := range cases {
		if got := retryBackoff(tc.attempts); got != tc.want {
			t.Errorf("retryBackoff(%d) = %v, want %v", tc.attempts, got, tc.want)
		}
	}
}

func TestFormalEmailHTML(t *testing.T) {
	html := FormalEmailHTML("Decision on your submission", "Ada Lovelace", "Your article was accepted.\nCongratulations & thank you.")

	if !strings.Contains(html, "Dear Ada Lovelace,") {
		t.Error("expected the greeting to address the recipient")
	}
	if !strings.Contains(html, "Congratulations &amp; thank you.") {
		t.Error("expected the message body to be HTML-escaped")
	}
	if !strings.Contains(html, "<br />") {
		t.Error("expected newlines to become line breaks")
	}

	fallback := FormalEmailHTML("Subject", "  ", "Hello.")
	if !strings.Contains(fallback, "Dear Author,") {
		t.Error("expected a fallback greeting when the name is blank")
	}
}

package services

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-management-api/config"
	"journal-management-api/models"
)

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// EnqueueEmail records an intended email as part of the caller's transaction.
// The outbox worker picks it up; a failed primary write rolls the email back
// with it, so notifications never fire for writes that did not happen.
func EnqueueEmail(tx *gorm.DB, recipient, subject, bodyHTML string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil
	}

	now := time.Now()
	row := models.EmailOutbox{
		RecipientEmail: recipient,
		Subject:        subject,
		BodyHTML:       bodyHTML,
		Status:         OutboxPending,
		NextAttemptAt:  now,
		CreatedAt:      now,
	}
	return tx.Create(&row).Error
}

// FormalEmailHTML wraps a plain-text message in the journal's formal email
// layout with an escaped greeting.
func FormalEmailHTML(subject, recipientName, message string) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "Author"
	}

	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}

// OutboxWorker dispatches pending outbox rows in the background.
type OutboxWorker struct {
	db          *gorm.DB
	send        func(to []string, subject, html string) error
	interval    time.Duration
	batchSize   int
	maxAttempts int
}

// NewOutboxWorker builds a worker over the shared mailer.
func NewOutboxWorker(db *gorm.DB) *OutboxWorker {
	return &OutboxWorker{
		db:          db,
		send:        config.SendMail,
		interval:    30 * time.Second,
		batchSize:   20,
		maxAttempts: 5,
	}
}

// Run polls the outbox until the context is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := w.DispatchPending(time.Now()); err != nil {
				log.Printf("outbox dispatch failed: %v", err)
			} else if n > 0 {
				log.Printf("outbox dispatched %d email(s)", n)
			}
		}
	}
}

// DispatchPending sends due pending rows once and returns how many were sent.
// A failed send increments attempts and pushes next_attempt_at out with an
// exponential backoff; rows that exhaust the attempt budget are marked failed
// and kept as an audit trail.
func (w *OutboxWorker) DispatchPending(now time.Time) (int, error) {
	var batch []models.EmailOutbox
	if err := w.db.Where("status = ? AND next_attempt_at <= ?", OutboxPending, now).
		Order("created_at ASC").
		Limit(w.batchSize).
		Find(&batch).Error; err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range batch {
		err := w.send([]string{row.RecipientEmail}, row.Subject, row.BodyHTML)
		if err == nil {
			sentAt := now
			if dbErr := w.db.Model(&models.EmailOutbox{}).
				Where("outbox_id = ?", row.OutboxID).
				Updates(map[string]interface{}{
					"status":  OutboxSent,
					"sent_at": sentAt,
				}).Error; dbErr != nil {
				return sent, dbErr
			}
			sent++
			continue
		}

		attempts := row.Attempts + 1
		updates := map[string]interface{}{
			"attempts":   attempts,
			"last_error": err.Error(),
		}
		if attempts >= w.maxAttempts {
			updates["status"] = OutboxFailed
		} else {
			updates["next_attempt_at"] = now.Add(retryBackoff(attempts))
		}
		if dbErr := w.db.Model(&models.EmailOutbox{}).
			Where("outbox_id = ?", row.OutboxID).
			Updates(updates).Error; dbErr != nil {
			return sent, dbErr
		}
	}

	return sent, nil
}

// retryBackoff doubles per attempt: 2m, 4m, 8m... capped at an hour.
func retryBackoff(attempts int) time.Duration {
	d := time.Minute << uint(attempts)
	if d > time.Hour {
		d = time.Hour
	}
	return d
}

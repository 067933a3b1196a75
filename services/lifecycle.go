package services

import (
	"errors"
	"fmt"
	"journal-management-api/models"
	"time"

	"gorm.io/gorm"
)

// Lifecycle statuses shared by submissions.status and articles.status.
const (
	StatusDraft               = "draft"
	StatusSubmitted           = "submitted"
	StatusUnderReview         = "under_review"
	StatusRevisionRequested   = "revision_requested"
	StatusAccepted            = "accepted"
	StatusRejected            = "rejected"
	StatusDeskRejected        = "desk_rejected"
	StatusInProduction        = "in_production"
	StatusCopyediting         = "copyediting"
	StatusProofreading        = "proofreading"
	StatusTypesetting         = "typesetting"
	StatusReadyForPublication = "ready_for_publication"
	StatusPublished           = "published"
)

// Editorial decision types recorded in the append-only log.
const (
	DecisionAccept            = "accept"
	DecisionReject            = "reject"
	DecisionRevisionRequired  = "revision_required"
	DecisionDeskReject        = "desk_reject"
	DecisionRevisionSubmitted = "revision_submitted"
)

// ErrInvalidTransition is returned when a requested status change is not an
// edge of the lifecycle graph, or the submission is not in the expected state.
var ErrInvalidTransition = errors.New("invalid status transition")

var allowedTransitions = map[string][]string{
	StatusDraft:               {StatusSubmitted},
	StatusSubmitted:           {StatusUnderReview, StatusDeskRejected, StatusRejected},
	StatusUnderReview:         {StatusRevisionRequested, StatusAccepted, StatusRejected},
	StatusRevisionRequested:   {StatusUnderReview},
	StatusAccepted:            {StatusInProduction, StatusPublished},
	StatusInProduction:        {StatusCopyediting},
	StatusCopyediting:         {StatusProofreading},
	StatusProofreading:        {StatusTypesetting},
	StatusTypesetting:         {StatusReadyForPublication},
	StatusReadyForPublication: {StatusPublished},
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextProductionStage returns the stage after current in the production
// pipeline, or false when current is not a production stage.
func NextProductionStage(current string) (string, bool) {
	switch current {
	case StatusAccepted:
		return StatusInProduction, true
	case StatusInProduction:
		return StatusCopyediting, true
	case StatusCopyediting:
		return StatusProofreading, true
	case StatusProofreading:
		return StatusTypesetting, true
	case StatusTypesetting:
		return StatusReadyForPublication, true
	}
	return "", false
}

// IsTerminal reports whether no further lifecycle transitions exist.
func IsTerminal(status string) bool {
	return len(allowedTransitions[status]) == 0
}

// TransitionOptions carries the optional side effects recorded with a status
// change: a decision log entry and any outbox emails.
type TransitionOptions struct {
	EditorID          int
	DecisionType      string
	DecisionRationale string
	Emails            []OutboxEmail

	// Extra runs inside the same transaction, after the status writes and the
	// decision insert. Returning an error rolls the whole transition back.
	Extra func(tx *gorm.DB, submission *models.Submission) error
}

// OutboxEmail is an email to enqueue alongside a transition.
type OutboxEmail struct {
	Recipient string
	Subject   string
	BodyHTML  string
}

// TransitionSubmission moves a submission to the target status. Inside one
// transaction it updates submissions.status, mirrors articles.status, appends
// the editorial decision if any, and enqueues outbox emails. The submission
// must currently be in a state with a legal edge to the target, otherwise
// ErrInvalidTransition is returned and nothing is written.
func TransitionSubmission(db *gorm.DB, submissionID int, target string, opts TransitionOptions) (*models.Submission, error) {
	var submission models.Submission

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ? AND delete_at IS NULL", submissionID).
			First(&submission).Error; err != nil {
			return err
		}

		if !CanTransition(submission.Status, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, submission.Status, target)
		}

		now := time.Now()
		if err := tx.Model(&models.Submission{}).
			Where("submission_id = ?", submission.SubmissionID).
			Updates(map[string]interface{}{
				"status":    target,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Article{}).
			Where("article_id = ?", submission.ArticleID).
			Updates(map[string]interface{}{
				"status":    target,
				"update_at": now,
			}).Error; err != nil {
			return err
		}

		if opts.DecisionType != "" {
			decision := models.EditorialDecision{
				SubmissionID: submission.SubmissionID,
				EditorID:     opts.EditorID,
				DecisionType: opts.DecisionType,
				CreatedAt:    now,
			}
			if opts.DecisionRationale != "" {
				rationale := opts.DecisionRationale
				decision.DecisionRationale = &rationale
			}
			if err := tx.Create(&decision).Error; err != nil {
				return err
			}
		}

		for _, email := range opts.Emails {
			if err := EnqueueEmail(tx, email.Recipient, email.Subject, email.BodyHTML); err != nil {
				return err
			}
		}

		if opts.Extra != nil {
			if err := opts.Extra(tx, &submission); err != nil {
				return err
			}
		}

		submission.Status = target
		submission.UpdateAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &submission, nil
}

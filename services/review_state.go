package services

import "errors"

// Review invitation states. A review is visible as "pending" until it reaches
// completed; submitted_at is set exactly at the invited->...->completed edge.
const (
	ReviewInvited   = "invited"
	ReviewAccepted  = "accepted"
	ReviewDeclined  = "declined"
	ReviewCompleted = "completed"
)

// Reviewer recommendations.
const (
	RecommendAccept         = "accept"
	RecommendMinorRevisions = "minor_revisions"
	RecommendMajorRevisions = "major_revisions"
	RecommendReject         = "reject"
)

// ErrReviewReadOnly is returned for any write against a completed review.
var ErrReviewReadOnly = errors.New("review has been submitted and is read-only")

var reviewTransitions = map[string][]string{
	ReviewInvited:  {ReviewAccepted, ReviewDeclined},
	ReviewAccepted: {ReviewCompleted},
}

// CanReviewTransition reports whether from -> to is a legal invitation edge.
func CanReviewTransition(from, to string) bool {
	for _, next := range reviewTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidRecommendation reports whether value is one of the four recommendations.
func ValidRecommendation(value string) bool {
	switch value {
	case RecommendAccept, RecommendMinorRevisions, RecommendMajorRevisions, RecommendReject:
		return true
	}
	return false
}

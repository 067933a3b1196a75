package services

import "testing"

func TestCanReviewTransition(t *testing.T) {
	legal := []struct{ from, to string }{
		{ReviewInvited, ReviewAccepted},
		{ReviewInvited, ReviewDeclined},
		{ReviewAccepted, ReviewCompleted},
	}
	for _, tc := range legal {
		if !CanReviewTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to string }{
		{ReviewInvited, ReviewCompleted},
		{ReviewDeclined, ReviewAccepted},
		{ReviewDeclined, ReviewCompleted},
		{ReviewCompleted, ReviewAccepted},
		{ReviewCompleted, ReviewInvited},
		{ReviewAccepted, ReviewDeclined},
		{"", ReviewAccepted},
	}
	for _, tc := range illegal {
		if CanReviewTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestValidRecommendation(t *testing.T) {
	for _, value := range []string{RecommendAccept, RecommendMinorRevisions, RecommendMajorRevisions, RecommendReject} {
		if !ValidRecommendation(value) {
			t.Errorf("expected %q to be valid", value)
		}
	}
	for _, value := range []string{"", "maybe", "ACCEPT", "minor", "revise"} {
		if ValidRecommendation(value) {
			t.Errorf("expected %q to be invalid", value)
		}
	}
}

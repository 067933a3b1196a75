package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"author@example.org",
		"first.last@university.ac.uk",
		"editor+journal@example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"author",
		"author@",
		"@example.org",
		"author@example",
		"author @example.org",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		fullName string
		ok       bool
	}{
		{"valid", "correct-horse-7", "Ada Lovelace", true},
		{"valid without digits", "such!secret!", "Ada Lovelace", true},
		{"too short", "ab!12345", "Ada Lovelace", false},
		{"purely numeric", "1234567890", "Ada Lovelace", false},
		{"no letter", "123456789!", "Ada Lovelace", false},
		{"no symbol", "abcdefgh123", "Ada Lovelace", false},
		{"contains name", "ada lovelace!9", "Ada Lovelace", false},
		{"contains name case insensitive", "xxADA LOVELACEyy!", "ada lovelace", false},
		{"empty name ignored", "good-enough-9", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, msg := ValidatePassword(tc.password, tc.fullName)
			if ok != tc.ok {
				t.Errorf("ValidatePassword(%q, %q) = %v (%q), want %v", tc.password, tc.fullName, ok, msg, tc.ok)
			}
			if !ok && msg == "" {
				t.Error("expected a reason for rejection")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello \x00world  "); got != "hello world" {
		t.Errorf("SanitizeInput = %q, want %q", got, "hello world")
	}
}

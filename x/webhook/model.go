package webhook

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxTextLength = 4096

var (
	msisdnPattern = regexp.MustCompile(`^\+\d+$`)
	tsPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)
)

// postRequest is the webhook payload shape.
type postRequest struct {
	MessageID string  `json:"message_id"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Ts        string  `json:"ts"`
	Text      *string `json:"text"`
}

// fieldError is one field-level validation failure.
type fieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// validate checks every field eagerly and returns the full list of
// violations rather than stopping at the first one.
func (r postRequest) validate() []fieldError {
	var errs []fieldError

	if strings.TrimSpace(r.MessageID) == "" {
		errs = append(errs, fieldError{"message_id", "must not be empty"})
	}
	if !msisdnPattern.MatchString(r.From) {
		errs = append(errs, fieldError{"from", "must be E.164, e.g. +14155550100"})
	}
	if !msisdnPattern.MatchString(r.To) {
		errs = append(errs, fieldError{"to", "must be E.164, e.g. +14155550100"})
	}
	if !tsPattern.MatchString(r.Ts) {
		errs = append(errs, fieldError{"ts", "must be ISO-8601 UTC, e.g. 2025-01-15T10:00:00Z"})
	}
	if r.Text != nil && utf8.RuneCountInString(*r.Text) > maxTextLength {
		errs = append(errs, fieldError{"text", "must not exceed 4096 characters"})
	}

	return errs
}

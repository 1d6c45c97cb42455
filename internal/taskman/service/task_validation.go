package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskway/taskman/internal/taskman/domain"
)

// Title and description limits.
const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 1000
)

// TaskPayload is a partial task as sent by a client. Nil fields were absent
// from the request, which matters for merge-patch updates: an absent field is
// left alone, a present one is validated and applied.
type TaskPayload struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *string // ISO-8601; empty string clears the deadline
	Priority    *int
}

type ValidationMode int

const (
	ValidateCreate ValidationMode = iota
	ValidateUpdate
)

// Accepted due date layouts, tried in order. A bare "Z" suffix is handled by
// RFC3339; naive datetimes and plain dates are interpreted as UTC.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate parses a client-supplied due date string into UTC. An empty
// string means "no deadline" and returns (nil, nil).
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// ValidateTaskPayload checks every present field of the payload and returns a
// map of field name to violation message. All violations are collected so a
// single response can report them together; an empty map means the payload is
// acceptable. The caller supplies now so "due date is in the past" is
// deterministic under test.
func ValidateTaskPayload(p TaskPayload, mode ValidationMode, now time.Time) map[string]string {
	violations := map[string]string{}

	if p.Title == nil {
		if mode == ValidateCreate {
			violations["title"] = "title is required"
		}
	} else {
		title := strings.TrimSpace(*p.Title)
		switch {
		case utf8.RuneCountInString(title) < TitleMinLength:
			violations["title"] = "title must be at least 3 characters"
		case utf8.RuneCountInString(title) > TitleMaxLength:
			violations["title"] = "title must be at most 100 characters"
		}
	}

	if p.Description != nil && utf8.RuneCountInString(*p.Description) > DescriptionMaxLength {
		violations["description"] = "description must be at most 1000 characters"
	}

	if p.Priority != nil && !domain.ValidPriority(*p.Priority) {
		violations["priority"] = "priority must be 1, 2 or 3"
	}

	if p.DueDate != nil {
		due, err := ParseDueDate(*p.DueDate)
		switch {
		case err != nil:
			violations["due_date"] = "due_date must be a valid ISO-8601 timestamp"
		case due != nil && due.Before(now):
			violations["due_date"] = "due_date must not be in the past"
		}
	}

	return violations
}

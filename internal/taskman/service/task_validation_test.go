package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestValidateTaskPayloadCreate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("minimal valid payload", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{Title: strPtr("buy milk")}, ValidateCreate, now)
		require.Empty(t, v)
	})

	t.Run("title required on create", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{}, ValidateCreate, now)
		require.Contains(t, v, "title")
	})

	t.Run("title too short after trimming", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{Title: strPtr("  ab  ")}, ValidateCreate, now)
		require.Contains(t, v, "title")
	})

	t.Run("title too long", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{Title: strPtr(strings.Repeat("x", 101))}, ValidateCreate, now)
		require.Contains(t, v, "title")
	})

	t.Run("description too long", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:       strPtr("valid title"),
			Description: strPtr(strings.Repeat("d", 1001)),
		}, ValidateCreate, now)
		require.Contains(t, v, "description")
	})

	t.Run("priority out of range", func(t *testing.T) {
		for _, p := range []int{0, 4, -1, 99} {
			v := ValidateTaskPayload(TaskPayload{Title: strPtr("valid title"), Priority: intPtr(p)}, ValidateCreate, now)
			require.Contains(t, v, "priority", "priority %d", p)
		}
		for _, p := range []int{1, 2, 3} {
			v := ValidateTaskPayload(TaskPayload{Title: strPtr("valid title"), Priority: intPtr(p)}, ValidateCreate, now)
			require.Empty(t, v, "priority %d", p)
		}
	})

	t.Run("collects all violations at once", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:       strPtr("ab"),
			Description: strPtr(strings.Repeat("d", 1001)),
			Priority:    intPtr(7),
			DueDate:     strPtr("not-a-date"),
		}, ValidateCreate, now)
		require.Len(t, v, 4)
	})
}

func TestValidateTaskPayloadUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty patch is valid", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{}, ValidateUpdate, now)
		require.Empty(t, v)
	})

	t.Run("present title still validated", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{Title: strPtr("x")}, ValidateUpdate, now)
		require.Contains(t, v, "title")
	})
}

func TestValidateTaskPayloadDueDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("accepts RFC3339 with Z suffix", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:   strPtr("valid title"),
			DueDate: strPtr("2026-06-01T10:00:00Z"),
		}, ValidateCreate, now)
		require.Empty(t, v)
	})

	t.Run("accepts naive datetime", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:   strPtr("valid title"),
			DueDate: strPtr("2026-06-01T10:00:00"),
		}, ValidateCreate, now)
		require.Empty(t, v)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:   strPtr("valid title"),
			DueDate: strPtr("next tuesday"),
		}, ValidateCreate, now)
		require.Contains(t, v, "due_date")
	})

	t.Run("rejects dates in the past relative to now", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:   strPtr("valid title"),
			DueDate: strPtr("2026-02-01T10:00:00Z"),
		}, ValidateCreate, now)
		require.Contains(t, v, "due_date")
	})

	t.Run("empty string clears the deadline", func(t *testing.T) {
		v := ValidateTaskPayload(TaskPayload{
			Title:   strPtr("valid title"),
			DueDate: strPtr(""),
		}, ValidateUpdate, now)
		require.Empty(t, v)
	})
}

func TestParseDueDate(t *testing.T) {
	t.Run("empty means no deadline", func(t *testing.T) {
		got, err := ParseDueDate("  ")
		require.NoError(t, err)
		require.Nil(t, got)
	})

	t.Run("normalizes to UTC", func(t *testing.T) {
		got, err := ParseDueDate("2026-06-01T10:00:00+02:00")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, time.UTC, got.Location())
		require.Equal(t, 8, got.Hour())
	})

	t.Run("plain date parses at midnight UTC", func(t *testing.T) {
		got, err := ParseDueDate("2026-06-01")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *got)
	})
}

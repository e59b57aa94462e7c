package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

const tagMaxLen = 50

func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}
	if hasJSONField(raw, "recurrence") && req.Recurrence == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	input := domain.CreateTaskInput{
		Title: title,
		Tags:  CleanTags(req.Tags),
	}

	if req.Description != nil {
		input.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		input.Priority = domain.Priority(*req.Priority)
	}
	if req.Recurrence != nil {
		input.Recurrence = domain.Recurrence(*req.Recurrence)
	}
	if req.ReminderOffsetMinutes != nil {
		value := *req.ReminderOffsetMinutes
		input.ReminderOffsetMinutes = &value
	}

	if req.DueDate != nil {
		parsed, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return domain.CreateTaskInput{}, ErrInvalidTaskPayload
		}
		input.DueDate = &parsed
	}

	return input, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var input domain.UpdateTaskInput

	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.Title = &value
	}

	if req.Description != nil {
		value := strings.TrimSpace(*req.Description)
		input.Description = &value
	}

	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Priority != nil {
		value := domain.Priority(*req.Priority)
		input.Priority = &value
	}

	if hasJSONField(raw, "recurrence") && req.Recurrence == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Recurrence != nil {
		value := domain.Recurrence(*req.Recurrence)
		input.Recurrence = &value
	}

	input.DueDateSet = hasJSONField(raw, "due_date")
	if input.DueDateSet && !isJSONNull(raw["due_date"]) {
		if req.DueDate == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		parsed, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		input.DueDate = &parsed
	}

	input.ReminderOffsetSet = hasJSONField(raw, "reminder_offset_minutes")
	if input.ReminderOffsetSet && !isJSONNull(raw["reminder_offset_minutes"]) {
		if req.ReminderOffsetMinutes == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		value := *req.ReminderOffsetMinutes
		input.ReminderOffsetMinutes = &value
	}

	input.TagsSet = hasJSONField(raw, "tags")
	if input.TagsSet {
		input.Tags = CleanTags(req.Tags)
	}

	return input, nil
}

// ParseDueDate accepts a full RFC 3339 timestamp or a bare date, which
// is read as midnight UTC.
func ParseDueDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

// CleanTags lowercases and trims tags, drops empties and over-length
// entries, and removes duplicates while keeping first-seen order.
func CleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		value := strings.ToLower(strings.TrimSpace(tag))
		if value == "" || len(value) > tagMaxLen {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		cleaned = append(cleaned, value)
	}
	return cleaned
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "due_date") ||
		hasJSONField(raw, "reminder_offset_minutes") ||
		hasJSONField(raw, "recurrence") ||
		hasJSONField(raw, "tags")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

package api

import (
	"strings"
	"unicode/utf8"
)

// validateText normalizes one input text. Leading and trailing whitespace is
// stripped before both the emptiness and the length check, so the limits apply
// to the text the model actually sees.
func validateText(field, text string, maxLen int) (string, *Error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", validationError("%s cannot be empty or only whitespace", field)
	}
	if n := utf8.RuneCountInString(trimmed); n > maxLen {
		return "", validationError("%s exceeds maximum length of %d characters (got %d)", field, maxLen, n)
	}
	return trimmed, nil
}

// validateBatch normalizes a batch of texts. Oversized batches are rejected
// outright rather than truncated or split, and a single invalid element fails
// the whole batch.
func validateBatch(texts []string, maxBatch, maxLen int) ([]string, *Error) {
	if len(texts) == 0 {
		return nil, validationError("texts cannot be empty")
	}
	if len(texts) > maxBatch {
		return nil, validationError("batch size %d exceeds maximum of %d", len(texts), maxBatch)
	}

	cleaned := make([]string, len(texts))
	for i, text := range texts {
		trimmed, apiErr := validateText("text", text, maxLen)
		if apiErr != nil {
			return nil, validationError("texts[%d]: %s", i, strings.TrimPrefix(apiErr.Detail, "text "))
		}
		cleaned[i] = trimmed
	}
	return cleaned, nil
}

package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	apperrors "workflow-analyzer/internal/common/errors"
	"workflow-analyzer/internal/common/validation"
)

var requestSchema = validation.MustCompile(fmt.Sprintf(`{
	"type": "object",
	"properties": {
		"content": {"type": "string", "minLength": %d}
	},
	"required": ["content"]
}`, MinContentLength))

// ValidateInput is the input gate. It returns nil when text may be sent to
// the workflow. Length is counted in characters; there is no upper bound.
func ValidateInput(text string) *apperrors.StandardError {
	length := utf8.RuneCountInString(text)

	result, err := requestSchema.Validate(AnalysisRequest{Content: text})
	if err != nil {
		// fixed schema; fall back to the plain length rule
		if length >= MinContentLength {
			return nil
		}
		return apperrors.NewInputTooShortError(length, MinContentLength, err.Error())
	}
	if result.Valid {
		return nil
	}
	return apperrors.NewInputTooShortError(length, MinContentLength, contentErrors(result))
}

func contentErrors(result *validation.ValidationResult) string {
	errs := result.GetErrorsForField("content")
	if len(errs) == 0 {
		return strings.Join(result.GetErrorMessages(), "; ")
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

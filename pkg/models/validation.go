package models

// ValidationScope identifies what a validation error is attached to.
type ValidationScope string

const (
	ScopeAssignment ValidationScope = "assignment" // Error on a top-level assignment field
	ScopeQuestion   ValidationScope = "question"   // Error on a specific question
)

// ValidationError is a structured, scoped failure reason tied to a specific
// field or question rather than the whole operation. Exactly one of Field or
// QuestionID is set, matching the scope.
type ValidationError struct {
	Scope      ValidationScope `json:"scope"`
	Field      string          `json:"field,omitempty"`
	QuestionID string          `json:"question_id,omitempty"`
	Message    string          `json:"message"`
}

// NewFieldError builds an assignment-scoped validation error.
func NewFieldError(field, message string) ValidationError {
	return ValidationError{Scope: ScopeAssignment, Field: field, Message: message}
}

// NewQuestionError builds a question-scoped validation error.
func NewQuestionError(questionID, message string) ValidationError {
	return ValidationError{Scope: ScopeQuestion, QuestionID: questionID, Message: message}
}

// FieldErrors partitions out the assignment-scoped entries keyed by field.
// When a field repeats, the last entry wins.
func FieldErrors(errs []ValidationError) map[string]string {
	out := make(map[string]string)

	for _, e := range errs {
		if e.Scope == ScopeAssignment {
			out[e.Field] = e.Message
		}
	}

	return out
}

// QuestionErrors partitions out the question-scoped entries keyed by question
// ID. When a question repeats, the last entry wins.
func QuestionErrors(errs []ValidationError) map[string]string {
	out := make(map[string]string)

	for _, e := range errs {
		if e.Scope == ScopeQuestion {
			out[e.QuestionID] = e.Message
		}
	}

	return out
}

// Without returns errs with every entry removed whose key matches the given
// field (assignment scope) or questionID (question scope). Passing neither
// key returns the input unchanged.
func Without(errs []ValidationError, field, questionID string) []ValidationError {
	if field == "" && questionID == "" {
		return errs
	}

	out := make([]ValidationError, 0, len(errs))

	for _, e := range errs {
		if field != "" && e.Scope == ScopeAssignment && e.Field == field {
			continue
		}

		if questionID != "" && e.Scope == ScopeQuestion && e.QuestionID == questionID {
			continue
		}

		out = append(out, e)
	}

	return out
}

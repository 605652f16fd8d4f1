package anaphora

import (
	"errors"
	"fmt"

	"github.com/sergev/anaphora/lang"
)

var (
	// ErrMalformedForm is matched by every expansion-time shape error.
	ErrMalformedForm = errors.New("malformed form")
	// ErrNoMatchingClause is matched when exhaustive dispatch finds no clause.
	ErrNoMatchingClause = errors.New("no matching clause")
)

// MalformedFormError describes an operator call whose operands do not have
// the shape the operator requires.
type MalformedFormError struct {
	Operator string
	Expected string
	Detail   string
}

func (e *MalformedFormError) Error() string {
	msg := fmt.Sprintf("%s: malformed form, expected %s", e.Operator, e.Expected)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *MalformedFormError) Unwrap() error {
	return ErrMalformedForm
}

func malformed(op, expected, detail string, args ...interface{}) error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &MalformedFormError{Operator: op, Expected: expected, Detail: detail}
}

// NoMatchingClauseError is raised at run time by anaphoric-ecase and
// anaphoric-etypecase when the dispatch value matches no clause.
type NoMatchingClauseError struct {
	Operator string
	Value    lang.Value
}

func (e *NoMatchingClauseError) Error() string {
	return fmt.Sprintf("%s: no matching clause for %s", e.Operator, e.Value)
}

func (e *NoMatchingClauseError) Unwrap() error {
	return ErrNoMatchingClause
}

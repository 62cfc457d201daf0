package recurrence

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRule = errors.New("invalid recurrence rule")
	ErrCapExceeded = errors.New("recurrence exceeds the occurrence cap")
)

// RuleError carries the rule field an expansion failed on, so a form can
// show the message next to it. It matches ErrInvalidRule or ErrCapExceeded
// through errors.Is.
type RuleError struct {
	Field   string
	Message string
	Err     error
}

func (err *RuleError) Error() string {
	return fmt.Sprintf("%s: %s: %s", err.Err, err.Field, err.Message)
}

func (err *RuleError) Unwrap() error {
	return err.Err
}

func invalid(field string, message string) *RuleError {
	return &RuleError{
		Field:   field,
		Message: message,
		Err:     ErrInvalidRule,
	}
}

func capExceeded(hardCap int) *RuleError {
	return &RuleError{
		Field: "end",
		Message: fmt.Sprintf(
			"more than %d occurrences, reduce the frequency or add an end date or count",
			hardCap,
		),
		Err: ErrCapExceeded,
	}
}

// FieldErrors flattens err into the field->message map used by form
// validation responses. ok is false when err is not a RuleError.
func FieldErrors(err error) (map[string]string, bool) {
	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) {
		return nil, false
	}

	return map[string]string{ruleErr.Field: ruleErr.Message}, true
}

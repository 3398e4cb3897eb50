package errors

import (
	"fmt"
)

// roverError represents a rover error carrying a code and a message.
type roverError struct {
	code ErrorCode
	msg  string
}

// roverParameterizedError wraps a roverError whose message was built from
// arguments the caller may also want to inspect.
type roverParameterizedError struct {
	roverError
	parameters []interface{}
}

func newRoverError(code ErrorCode, msg string) error {
	return &roverError{code, msg}
}

// Error implements the error interface.
func (err *roverError) Error() string {
	return err.msg
}

// Get returns the constant error registered for code.
func Get(code ErrorCode) error {
	err, found := constErrors[code]
	if !found {
		return fmt.Errorf("system internal error, cannot find the error code %v", code)
	}

	return err
}

// Create builds a parameterized error for code, formatting args into its message template.
func Create(code ErrorCode, args ...interface{}) error {
	errFormat, found := parameterizedErrors[code]
	if !found {
		return fmt.Errorf("system internal error, cannot find the error code %v", code)
	}

	return &roverParameterizedError{
		roverError: roverError{code, fmt.Sprintf(errFormat, args...)},
		parameters: args,
	}
}

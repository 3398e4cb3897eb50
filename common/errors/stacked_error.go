package errors

import (
	"bytes"
	"fmt"
)

const errSeparator = " ===> "

// StackedError records an error together with the errors that led to it.
type StackedError struct {
	msg   string
	inner error
}

// NewStackedError returns a StackedError wrapping inner with msg.
func NewStackedError(inner error, msg string) error {
	return &StackedError{
		msg:   msg,
		inner: inner,
	}
}

// NewStackedErrorf returns a StackedError wrapping inner with a formatted message.
func NewStackedErrorf(inner error, format string, a ...interface{}) error {
	return &StackedError{
		msg:   fmt.Sprintf(format, a...),
		inner: inner,
	}
}

// Error implements the error interface.
func (err *StackedError) Error() string {
	var buf bytes.Buffer

	buf.WriteString(err.msg)

	for innerErr := err.inner; innerErr != nil; {
		buf.WriteString(errSeparator)

		if se, ok := innerErr.(*StackedError); ok {
			buf.WriteString(se.msg)
			innerErr = se.inner
		} else {
			buf.WriteString(innerErr.Error())
			innerErr = nil
		}
	}

	return buf.String()
}

// IsOrContains reports whether err is inner, or is a StackedError wrapping it.
func IsOrContains(err error, inner error) bool {
	for err != nil {
		if err == inner {
			return true
		}

		if se, ok := err.(*StackedError); ok {
			err = se.inner
		} else {
			break
		}
	}

	return false
}

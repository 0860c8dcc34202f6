package kinematics

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the failures reported by the kinematics, ik and configurator packages.
type Kind string

// The kinds of error a caller can distinguish.
const (
	InvalidChain            = Kind("InvalidChain")
	InvalidTarget           = Kind("InvalidTarget")
	JointCountMismatch      = Kind("JointCountMismatch")
	UnsupportedMethod       = Kind("UnsupportedMethod")
	ConvergenceFailure      = Kind("ConvergenceFailure")
	NoFeasibleConfiguration = Kind("NoFeasibleConfiguration")
	InvalidOptions          = Kind("InvalidOptions")
	BudgetExceeded          = Kind("BudgetExceeded")
)

// Error is a kinded error. The message is meant for people; the kind is meant for programs.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewError returns an error of the given kind.
func NewError(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError returns an error of the given kind caused by err.
func WrapError(kind Kind, err error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: err}
}

// NewInvalidChainError returns an error indicating a chain or one of its parameters is malformed.
func NewInvalidChainError(format string, args ...interface{}) error {
	return NewError(InvalidChain, format, args...)
}

// NewInvalidTargetError returns an error indicating a target is malformed.
func NewInvalidTargetError(format string, args ...interface{}) error {
	return NewError(InvalidTarget, format, args...)
}

// NewJointCountMismatchError returns an error indicating the number of joint angles does not match the chain.
func NewJointCountMismatchError(angles, joints int) error {
	return NewError(JointCountMismatch, "got %d joint angles for a chain of %d joints", angles, joints)
}

// NewUnsupportedMethodError returns an error indicating an unknown IK solving method was requested.
func NewUnsupportedMethodError(method string) error {
	return NewError(UnsupportedMethod, "unsupported ik method %q", method)
}

// KindOf returns the kind of err, or the empty kind if err is not a kinded error.
func KindOf(err error) Kind {
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}
	return ""
}

// IsKind returns whether err, or any error it wraps, is of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Package function registers scalar function signatures.  Each signature is
// analyzed when it is registered and the analysis decides whether the
// signature is valid and how its overloads are ordered.
package function

import (
	"errors"
	"regexp"
)

var (
	ErrBadName            = errors.New("bad function name")
	ErrBadSignature       = errors.New("bad signature")
	ErrDuplicateSignature = errors.New("duplicate signature")
	ErrDuplicateVariable  = errors.New("duplicate type variable")
	ErrNoSuchFunction     = errors.New("no such function")
	ErrTooFewArgs         = errors.New("too few arguments")
	ErrTooManyArgs        = errors.New("too many arguments")
	ErrUnboundReturnType  = errors.New("return type not bound by arguments")
	ErrUndeclaredVariable = errors.New("undeclared type variable")
	ErrUnusedVariable     = errors.New("type variable not used by any argument")
	ErrVariadicPosition   = errors.New("variadic type is only allowed as the last argument")
)

var nameRE = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// CheckArgCount returns ErrTooFewArgs or ErrTooManyArgs if narg is outside
// [argmin, argmax].  A bound of -1 is unlimited.
func CheckArgCount(narg int, argmin int, argmax int) error {
	if argmin != -1 && narg < argmin {
		return ErrTooFewArgs
	}
	if argmax != -1 && narg > argmax {
		return ErrTooManyArgs
	}
	return nil
}

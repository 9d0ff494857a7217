package render

import "fmt"

// TokenCountMismatchError reports a positional argument list whose length
// does not match the declared token list. No partial binding happens on
// mismatch.
type TokenCountMismatchError struct {
	Expected int
	Got      int
}

func (e *TokenCountMismatchError) Error() string {
	return fmt.Sprintf("declared tokens expect %d argument(s), got %d", e.Expected, e.Got)
}

// InvalidArgumentError reports an argument that cannot be parsed into the
// shape its token requires.
type InvalidArgumentError struct {
	Token fmt.Stringer
	Value string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("token %s has invalid argument %q", e.Token, e.Value)
}

// RenderError reports a failure from the template engine.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

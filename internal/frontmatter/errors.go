package frontmatter

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/vdbe/sshd-command/internal/tokens"
)

// ErrMalformed reports a template whose front-matter block cannot be
// separated from the body: a delimiter line is missing or a segment is empty.
var ErrMalformed = errors.New("malformed front matter")

// ErrMissingIdentitySource reports complete_user enabled without a token
// that can seed the user lookup.
var ErrMissingIdentitySource = errors.New(`"%U" or "%u" token required when complete_user is true`)

// SchemaError reports a required front-matter field that is missing or has
// the wrong shape.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("front matter field %q: %s", e.Field, e.Reason)
}

// VersionError reports a template that declares a minimum sshd-command
// version newer than the running program.
type VersionError struct {
	Program  *semver.Version
	Required *semver.Version
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("template requires sshd-command version %s or newer, but you are running %s",
		e.Required, e.Program)
}

// UnsupportedTokenError reports a token that sshd never passes to the
// declared command.
type UnsupportedTokenError struct {
	Command Command
	Token   tokens.Token
}

func (e *UnsupportedTokenError) Error() string {
	return fmt.Sprintf("%s is not a valid token for %s", e.Token, e.Command)
}

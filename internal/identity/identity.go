// Package identity resolves hostname and user/group information for the
// render context. The OS identity database is process-global state, so it is
// consumed through the Source interface and tests substitute deterministic
// fixtures.
package identity

import (
	"errors"
	"fmt"
)

// Record is a single passwd entry: uid, login name, and primary group.
type Record struct {
	UID  uint32
	Name string
	GID  uint32
}

// Group is one group membership.
type Group struct {
	GID  uint32
	Name string
}

// User is a completed identity: the passwd record plus the user's primary
// and supplementary group memberships.
type User struct {
	Record
	Groups []Group
}

// Source is the identity database the resolver consults. Implementations
// must be safe for the single-shot synchronous call pattern; no timeouts or
// cancellation are layered on top.
type Source interface {
	// Hostname returns the local system's hostname.
	Hostname() (string, error)

	// LookupUID resolves a passwd record by numeric user ID.
	LookupUID(uid uint32) (Record, error)

	// LookupUser resolves a passwd record by login name.
	LookupUser(name string) (Record, error)

	// Groups lists the user's group memberships, primary included, in a
	// deterministic order.
	Groups(r Record) ([]Group, error)
}

// ErrHostnameUnavailable reports a failed hostname lookup. There is no
// fallback: a template that declares hostname: true must not render with an
// empty or default value.
var ErrHostnameUnavailable = errors.New("hostname unavailable")

// UserNotFoundError reports a uid or username with no passwd entry.
type UserNotFoundError struct {
	ID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.ID)
}

// GroupLookupError reports a failed group membership lookup.
type GroupLookupError struct {
	User string
}

func (e *GroupLookupError) Error() string {
	return fmt.Sprintf("group lookup failed for user %q", e.User)
}

// Hostname fetches the hostname through src, mapping any failure to
// ErrHostnameUnavailable.
func Hostname(src Source) (string, error) {
	name, err := src.Hostname()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHostnameUnavailable, err)
	}
	return name, nil
}

// Complete resolves a full User from whichever of uid and name is known.
// When both are present the uid wins, for determinism. At least one must be
// set; the caller guarantees that via front-matter validation.
func Complete(src Source, uid *uint32, name *string) (*User, error) {
	var (
		record Record
		err    error
	)

	switch {
	case uid != nil:
		record, err = src.LookupUID(*uid)
	case name != nil:
		record, err = src.LookupUser(*name)
	default:
		return nil, errors.New("cannot complete user: no uid or username token bound")
	}
	if err != nil {
		return nil, err
	}

	groups, err := src.Groups(record)
	if err != nil {
		return nil, err
	}

	return &User{Record: record, Groups: groups}, nil
}

package identity

import (
	"fmt"
	"os"
	"os/user"
	"sort"
	"strconv"
)

// osSource reads the real OS identity database through os/user and
// os.Hostname.
type osSource struct{}

// NewOSSource returns the Source backed by the operating system.
func NewOSSource() Source {
	return osSource{}
}

func (osSource) Hostname() (string, error) {
	return os.Hostname()
}

func (osSource) LookupUID(uid uint32) (Record, error) {
	u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10))
	if err != nil {
		return Record{}, &UserNotFoundError{ID: strconv.FormatUint(uint64(uid), 10)}
	}
	return toRecord(u)
}

func (osSource) LookupUser(name string) (Record, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Record{}, &UserNotFoundError{ID: name}
	}
	return toRecord(u)
}

// Groups returns the user's memberships sorted by ascending gid. os/user
// gives no ordering guarantee, so the sort keeps output deterministic across
// invocations.
func (osSource) Groups(r Record) ([]Group, error) {
	u := &user.User{
		Uid:      strconv.FormatUint(uint64(r.UID), 10),
		Gid:      strconv.FormatUint(uint64(r.GID), 10),
		Username: r.Name,
	}

	gids, err := u.GroupIds()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", &GroupLookupError{User: r.Name}, err)
	}

	groups := make([]Group, 0, len(gids))
	for _, gid := range gids {
		g, err := user.LookupGroupId(gid)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", &GroupLookupError{User: r.Name}, err)
		}

		parsed, err := strconv.ParseUint(g.Gid, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: gid %q is not numeric", &GroupLookupError{User: r.Name}, g.Gid)
		}

		groups = append(groups, Group{GID: uint32(parsed), Name: g.Name})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].GID < groups[j].GID })

	return groups, nil
}

func toRecord(u *user.User) (Record, error) {
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("uid %q is not numeric: %w", u.Uid, err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return Record{}, fmt.Errorf("gid %q is not numeric: %w", u.Gid, err)
	}

	return Record{UID: uint32(uid), Name: u.Username, GID: uint32(gid)}, nil
}

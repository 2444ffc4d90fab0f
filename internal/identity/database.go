package identity

import (
	"errors"
	"io/fs"

	"github.com/moby/sys/user"
)

// User and group lookup by name.
//
// Implementations return [ErrUserNotFound] or [ErrGroupNotFound] when no
// entry matches. Other errors indicate the database could not be read.
type Database interface {
	LookupUser(name string) (user.User, error)
	LookupGroup(name string) (user.Group, error)
}

// [Database] backed by passwd and group files.
//
// A missing file is treated as an empty database.
type Files struct {
	Passwd string // Path to the passwd file.
	Group  string // Path to the group file.
}

// Returns a [Files] database for the host's passwd and group files.
func Host() (*Files, error) {
	passwd, err := user.GetPasswdPath()
	if err != nil {
		return nil, err
	}
	group, err := user.GetGroupPath()
	if err != nil {
		return nil, err
	}
	return &Files{Passwd: passwd, Group: group}, nil
}

// Returns the first passwd entry with the given name.
func (f *Files) LookupUser(name string) (user.User, error) {
	users, err := user.ParsePasswdFileFilter(f.Passwd, func(u user.User) bool {
		return u.Name == name
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return user.User{}, err
	}
	if len(users) == 0 {
		return user.User{}, ErrUserNotFound
	}
	return users[0], nil
}

// Returns the first group entry with the given name.
func (f *Files) LookupGroup(name string) (user.Group, error) {
	groups, err := user.ParseGroupFileFilter(f.Group, func(g user.Group) bool {
		return g.Name == name
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return user.Group{}, err
	}
	if len(groups) == 0 {
		return user.Group{}, ErrGroupNotFound
	}
	return groups[0], nil
}

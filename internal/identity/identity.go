package identity

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Numeric user and group IDs.
type Identity struct {
	UID uint32 // User ID.
	GID uint32 // Group ID.
}

// Root identity, used when an image declares no user.
var Root = Identity{}

// Returns the real user and group IDs of the calling process.
func Current() Identity {
	return Identity{UID: uint32(os.Getuid()), GID: uint32(os.Getgid())}
}

// Resolves run-as user strings against a [Database].
type Resolver struct {
	db Database
}

// Creates a new [Resolver].
func NewResolver(db Database) *Resolver {
	return &Resolver{db: db}
}

// Resolves a "user" or "user:group" string.
//
// An empty string resolves to root. The string is split on the first colon.
// An unknown user resolves to UID 0. A missing group token resolves to GID 0.
// A group token that is neither a known group name nor a number is an error
// wrapping [ErrInvalidGroup].
func (r *Resolver) Resolve(spec string) (Identity, error) {
	if spec == "" {
		return Root, nil
	}

	name, group, hasGroup := strings.Cut(spec, ":")

	uid, err := r.lookupUID(name)
	if err != nil {
		return Identity{}, err
	}

	if !hasGroup {
		return Identity{UID: uid}, nil
	}

	gid, err := r.lookupGID(group)
	if err != nil {
		return Identity{}, err
	}

	return Identity{UID: uid, GID: gid}, nil
}

// Returns the UID for name, or 0 if the user is unknown.
func (r *Resolver) lookupUID(name string) (uint32, error) {
	u, err := r.db.LookupUser(name)
	if errors.Is(err, ErrUserNotFound) {
		slog.Warn("user not found, running as root", "user", name)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup user %q: %w", name, err)
	}
	return uint32(u.Uid), nil
}

// Returns the GID for a group name or numeric string.
func (r *Resolver) lookupGID(group string) (uint32, error) {
	g, err := r.db.LookupGroup(group)
	if err == nil {
		return uint32(g.Gid), nil
	}
	if !errors.Is(err, ErrGroupNotFound) {
		return 0, fmt.Errorf("lookup group %q: %w", group, err)
	}

	gid, perr := strconv.ParseUint(group, 10, 32)
	if perr != nil {
		return 0, fmt.Errorf("%w: %q is not a known group or a numeric id", ErrInvalidGroup, group)
	}
	return uint32(gid), nil
}

// Returns single-entry UID and GID mapping tables.
//
// Each table maps the container identity onto the host identity with a size
// of one.
func Mappings(container, host Identity) (uid, gid []specs.LinuxIDMapping) {
	uid = []specs.LinuxIDMapping{{ContainerID: container.UID, HostID: host.UID, Size: 1}}
	gid = []specs.LinuxIDMapping{{ContainerID: container.GID, HostID: host.GID, Size: 1}}
	return uid, gid
}

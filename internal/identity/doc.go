// Package identity maps an image's declared run-as user to numeric IDs.
//
// The user string has the form "user" or "user:group". The user part is
// looked up by name in the host user database; an unknown user resolves to
// root with a warning rather than an error. The group part is looked up by
// name first, then parsed as a numeric GID. When no group is given the GID is
// 0, regardless of the user's primary group.
//
// The resolved identity is mapped onto the invoking host user with
// single-entry ID mapping tables, which is all a rootless user namespace can
// express without subordinate ID ranges.
//
// Example usage:
//
//	db, err := identity.Host()
//	if err != nil {
//	    return err
//	}
//
//	id, err := identity.NewResolver(db).Resolve("alice:staff")
//	if err != nil {
//	    return err
//	}
//
//	uidMap, gidMap := identity.Mappings(id, identity.Current())
package identity

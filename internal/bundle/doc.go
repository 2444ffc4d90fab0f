// Package bundle generates OCI runtime bundles for rootless containers.
//
// A [Generator] turns a container configuration into a directory that an
// OCI runtime can start directly. For a container named "web" the bundle
// lives in <cache>/containers/web and contains:
//
//	rootfs/       mount point for the overlay root filesystem
//	upper/        writable overlay layer, preserved across builds
//	work/         overlay scratch directory
//	bin/          link scripts and the doe binary, mounted at /usr/bin/doe
//	config.json   runtime specification, written last
//
// The image is resolved through an [image.Manager] created for the build.
// Its layers become the overlay lower directories. The image's declared user
// is resolved against the host user database and mapped onto the invoking
// user with single-entry ID mappings. The container gets private mount, UTS,
// IPC, user, and PID namespaces and shares the host network.
//
// The generator only describes the container. Namespaces, mounts, and the
// container process are created by the runtime that consumes the bundle.
// A failed build leaves whatever it created on disk; config.json is replaced
// atomically and only once everything else is in place, so its presence
// marks a complete bundle.
//
// Builds for the same container name must not run concurrently. Builds for
// different names are independent.
//
// Example usage:
//
//	gen, err := bundle.New(bundle.Options{})
//	if err != nil {
//	    return err
//	}
//
//	dir, err := gen.Build(ctx, "web", cfg, os.Args[2:])
//	if err != nil {
//	    return err
//	}
package bundle

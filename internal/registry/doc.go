// Package registry resolves images pulled from OCI registries.
//
// References are normalised the way the Docker CLI does it, so "alpine"
// becomes "docker.io/library/alpine:latest". The manifest for the host
// platform is fetched with credentials from the default keychain, compressed
// blobs are cached on disk, and every layer is unpacked into the layer store.
//
// Registry failures are classified with errdefs: unknown repositories and
// manifests are not found, malformed references are invalid arguments, auth
// failures are unauthenticated or permission denied, and everything else is
// unavailable.
//
// Example usage:
//
//	r, err := registry.New(registry.Options{
//	    Store:   layer.NewStore(paths.Layers(cache)),
//	    BlobDir: paths.Blobs(cache),
//	})
//	if err != nil {
//	    return err
//	}
//
//	img, err := r.Resolve(ctx, image.Source{Registry: "alpine:3.20"})
package registry

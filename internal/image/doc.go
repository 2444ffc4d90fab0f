// Package image resolves image source descriptors into layer lists.
//
// A [Source] names where an image comes from: a registry reference, an OCI
// layout on the local filesystem, or an inline build description. Exactly one
// of the three must be set. Each kind is served by a [Resolver] created on
// first use by a [Factory] registered with the [Manager], and reused for the
// lifetime of that manager.
//
// The resolved [Image] carries the uncompressed layer digests in base-first
// order together with the image's execution defaults (user, entrypoint,
// command, environment). Layers themselves are unpacked to disk by the
// resolvers; the image only references them by digest.
//
// A [Cache] can be shared between managers to memoise resolutions across
// calls. Concurrent requests for the same source are collapsed into a single
// resolution. Without a cache every manager starts cold.
//
// Example usage:
//
//	mgr := image.NewManager(
//	    image.WithFactory(image.KindRegistry, registry.Factory(opts)),
//	    image.WithFactory(image.KindPath, local.Factory(store)),
//	)
//
//	img, err := mgr.Resolve(ctx, image.Source{Registry: "alpine:3.20"})
//	if err != nil {
//	    return err
//	}
package image

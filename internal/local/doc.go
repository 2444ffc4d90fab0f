// Package local resolves images stored as OCI image layouts on disk.
//
// A path source names a layout directory, optionally followed by ":<ref>"
// to select a manifest by its org.opencontainers.image.ref.name annotation.
// Without a ref the layout must contain exactly one manifest. Nested image
// indexes are searched for the manifest matching the host platform.
//
// Example usage:
//
//	r := local.New(layer.NewStore(paths.Layers(cache)))
//
//	img, err := r.Resolve(ctx, image.Source{Path: "./dist/image:v1"})
//	if err != nil {
//	    return err
//	}
package local

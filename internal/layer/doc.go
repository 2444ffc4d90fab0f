// Package layer stores unpacked image layers addressed by content digest.
//
// Each layer is extracted once into <root>/<algorithm>/<encoded>, where the
// digest is the sha256 of the uncompressed layer tarball (the diff ID). The
// resulting directories are used directly as overlay lower directories.
//
// Extraction is rootless: file ownership for container root is mapped onto
// the invoking user, and ownership changes that cannot be applied without
// privileges are skipped. Layers are unpacked into a staging directory next
// to their final location and renamed into place once the content digest has
// been verified, so a partially extracted layer is never visible.
//
// Example usage:
//
//	store := layer.NewStore(paths.Layers(cache))
//
//	img, err := store.Import(ctx, v1img)
//	if err != nil {
//	    return err
//	}
//
//	lower := store.Path(img.Layers[0])
package layer

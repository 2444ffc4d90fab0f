// Provides platform-appropriate paths for the runtime.
//
// All paths follow XDG conventions on Linux and platform-native conventions
// on macOS. The runtime name "doe" is used as the subdirectory under the cache
// base path. Image layers, downloaded blobs, and container bundles each live
// in their own subdirectory of the cache root so they can be managed
// independently.
package paths

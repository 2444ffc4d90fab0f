// Package build resolves inline build descriptions into images.
//
// A build starts from a base image, resolved through the parent resolver, or
// from an empty filesystem when no base is given. Steps are applied in
// declaration order. A copy step archives a file or directory from the build
// context and publishes it as a new layer in the layer store. All other
// fields are modifiers.
//
// Modifier state (working directory, environment) is accumulated across
// steps. A working directory on a copy step applies to that copy only, and
// an environment on a copy step is ignored. A standalone modifier step
// persists for the remaining steps. The user, entrypoint, and
// command modifiers always persist, since they only affect the resulting
// image config. The final state is written on top of the base image config.
//
// Copy sources are resolved inside the build context and cannot escape it,
// even through symbolic links. Copied files are owned by container root.
// Commands cannot be run during a build, since that requires executing a
// container.
//
// Example usage:
//
//	r := build.New(layer.NewStore(paths.Layers(cache)), manager)
//
//	img, err := r.Resolve(ctx, image.Source{Build: &image.BuildSpec{
//	    From:    &image.Source{Registry: "alpine:3.20"},
//	    Context: "/src/app",
//	    Steps: []image.Step{
//	        {Workdir: "/app"},
//	        {Copy: "bin/server server"},
//	        {Cmd: []string{"/app/server"}},
//	    },
//	}})
//	if err != nil {
//	    return err
//	}
package build

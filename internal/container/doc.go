// Package container loads container configuration files.
//
// A configuration is a TOML document naming the image source and optional
// overrides for the image's entrypoint, command, and environment. Links name
// other containers that can be invoked from inside this one.
//
//	entrypoint = ["/init"]
//	cmd = ["serve"]
//
//	[image]
//	registry = "docker.io/library/alpine:3.20"
//
//	[env]
//	FOO = "bar"
//
//	[links]
//	db = "postgres"
//
// Relative image paths and build contexts are resolved against the directory
// containing the configuration file. Unknown keys are rejected.
//
// Example usage:
//
//	cfg, err := container.Load("app.toml")
//	if err != nil {
//	    return err
//	}
package container

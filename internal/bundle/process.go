package bundle

import (
	"slices"

	"github.com/cruciblehq/doe/internal/container"
	"github.com/cruciblehq/doe/internal/environ"
	"github.com/cruciblehq/doe/internal/identity"
	"github.com/cruciblehq/doe/internal/image"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Command run when neither the image nor the config names one.
const defaultShell = "sh"

// Capabilities granted to the container process.
var defaultCapabilities = []string{
	"CAP_AUDIT_WRITE",
	"CAP_KILL",
	"CAP_NET_BIND_SERVICE",
}

// Returns the argument vector of the container process.
//
// The entrypoint and command each come from the config when set there, and
// from the image otherwise. The command follows the entrypoint. If both are
// empty the process runs [defaultShell]. extra is appended last.
func Args(img *image.Image, cfg *container.Config, extra []string) []string {
	entrypoint := cfg.Entrypoint
	if entrypoint == nil {
		entrypoint = img.Entrypoint()
	}

	cmd := cfg.Cmd
	if cmd == nil {
		cmd = img.Cmd()
	}

	args := slices.Concat(entrypoint, cmd)
	if len(args) == 0 {
		args = []string{defaultShell}
	}
	return append(args, extra...)
}

// Returns the environment of the container process.
//
// Config values override image values with the same key. [BinDir] is
// appended to PATH, or becomes PATH when PATH is unset or empty.
func Env(img *image.Image, cfg *container.Config) []string {
	env := environ.Merge(img.Env(), cfg.Env)
	environ.AppendPath(env, "PATH", BinDir)
	return environ.Format(env)
}

// Returns the process section of the runtime specification.
func Process(img *image.Image, cfg *container.Config, extra []string, id identity.Identity) *specs.Process {
	cwd := "/"
	if img.Config != nil && img.Config.WorkingDir != "" {
		cwd = img.Config.WorkingDir
	}

	return &specs.Process{
		Args: Args(img, cfg, extra),
		Env:  Env(img, cfg),
		Cwd:  cwd,
		User: specs.User{
			UID: id.UID,
			GID: id.GID,
		},
		Capabilities: &specs.LinuxCapabilities{
			Bounding:  defaultCapabilities,
			Effective: defaultCapabilities,
			Permitted: defaultCapabilities,
		},
		Rlimits: []specs.POSIXRlimit{
			{Type: "RLIMIT_NOFILE", Hard: 1024, Soft: 1024},
		},
		NoNewPrivileges: true,
	}
}

package bundle

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Returns the namespaces of a container.
//
// The network namespace is shared with the host.
func Namespaces() []specs.LinuxNamespace {
	return []specs.LinuxNamespace{
		{Type: specs.MountNamespace},
		{Type: specs.UTSNamespace},
		{Type: specs.IPCNamespace},
		{Type: specs.UserNamespace},
		{Type: specs.PIDNamespace},
	}
}

// Returns the Linux section of the runtime specification.
func Linux(uidMappings, gidMappings []specs.LinuxIDMapping) *specs.Linux {
	return &specs.Linux{
		UIDMappings: uidMappings,
		GIDMappings: gidMappings,
		Namespaces:  Namespaces(),
		MaskedPaths: []string{
			"/proc/kcore",
			"/proc/latency_stats",
			"/proc/timer_list",
			"/proc/timer_stats",
			"/proc/sched_debug",
			"/sys/firmware",
		},
		ReadonlyPaths: []string{
			"/proc/asound",
			"/proc/bus",
			"/proc/fs",
			"/proc/irq",
			"/proc/sys",
			"/proc/sysrq-trigger",
		},
	}
}

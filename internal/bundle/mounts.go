package bundle

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// Size limit of the /dev and /dev/shm tmpfs mounts.
const tmpfsSize = 64 * datasize.MB

// Returns the mount table of a container.
//
// The overlay root comes first, followed by the pseudo filesystems in an
// order where every mount point exists by the time it is mounted. The bin
// directory is mounted last at [BinDir]. lowerDirs are joined in the given
// order.
func Mounts(lowerDirs []string, l Layout) []specs.Mount {
	return []specs.Mount{
		{
			Destination: "/",
			Type:        "overlay",
			Source:      "overlay",
			Options: []string{
				"lowerdir=" + strings.Join(lowerDirs, ":"),
				"upperdir=" + l.Upper,
				"workdir=" + l.Work,
			},
		},
		{
			Destination: "/proc",
			Type:        "proc",
			Source:      "proc",
		},
		{
			Destination: "/dev",
			Type:        "tmpfs",
			Source:      "tmpfs",
			Options:     []string{"nosuid", "strictatime", "mode=755", sizeOption(tmpfsSize)},
		},
		{
			Destination: "/dev/pts",
			Type:        "devpts",
			Source:      "devpts",
			Options:     []string{"nosuid", "noexec", "newinstance", "ptmxmode=0666", "mode=0620"},
		},
		{
			Destination: "/dev/shm",
			Type:        "tmpfs",
			Source:      "shm",
			Options:     []string{"nosuid", "noexec", "nodev", "mode=1777", sizeOption(tmpfsSize)},
		},
		{
			Destination: "/dev/mqueue",
			Type:        "mqueue",
			Source:      "mqueue",
			Options:     []string{"nosuid", "noexec", "nodev"},
		},
		{
			Destination: "/sys",
			Type:        "none",
			Source:      "/sys",
			Options:     []string{"rbind", "nosuid", "noexec", "nodev", "ro"},
		},
		{
			Destination: "/sys/fs/cgroup",
			Type:        "cgroup",
			Source:      "cgroup",
			Options:     []string{"nosuid", "noexec", "nodev", "relatime", "ro"},
		},
		{
			Destination: BinDir,
			Type:        "bind",
			Source:      l.Bin,
			Options:     []string{"rbind", "rw"},
		},
	}
}

// Formats a tmpfs size option in kibibytes.
func sizeOption(size datasize.ByteSize) string {
	return fmt.Sprintf("size=%dk", size/datasize.KB)
}

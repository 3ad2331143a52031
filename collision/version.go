package collision

import (
	"runtime/debug"

	"golang.org/x/mod/semver"

	"github.com/kolkov/collision/internal/collision/counter"
)

// Version information for the collision experiment.
const (
	// Version is the release version, used when the binary carries no
	// module version of its own (for example when built from a checkout).
	Version = "v0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the running binary.
type Info struct {
	// Version is the canonical semantic version of the build.
	Version string

	// Strategies lists the selectable increment strategies.
	Strategies []string
}

// GetInfo returns information about the running binary.
//
// Example:
//
//	info := collision.GetInfo()
//	fmt.Printf("collision %s\n", info.Version)
func GetInfo() Info {
	return Info{
		Version:    BuildVersion(),
		Strategies: []string{counter.Synchronized.String(), counter.Unsynchronized.String()},
	}
}

// BuildVersion returns the module version recorded in the binary's build
// info, canonicalized, or Version when the build info holds none (devel
// builds report "(devel)", which is not a semantic version).
func BuildVersion() string {
	return resolveVersion(debug.ReadBuildInfo())
}

func resolveVersion(bi *debug.BuildInfo, ok bool) string {
	if ok && bi != nil && semver.IsValid(bi.Main.Version) {
		return semver.Canonical(bi.Main.Version)
	}
	return Version
}

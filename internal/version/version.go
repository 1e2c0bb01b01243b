package version

import (
	"runtime/debug"
	"sync"
)

const (
	versionDevel = "devel"
	shortSHA     = 12
)

// version is set via ldflags at build time:
//
//	-ldflags "-X github.com/garrettladley/titohook/internal/version.version=v1.2.3"
var version = versionDevel

var once sync.Once

// Get returns the ldflags version, else the module version for go install,
// else the VCS revision of a local build.
func Get() string {
	once.Do(func() {
		if version != versionDevel {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		version = fromBuildInfo(info)
	})
	return version
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
		return v
	}

	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return versionDevel
	}
	if len(revision) > shortSHA {
		revision = revision[:shortSHA]
	}
	if dirty {
		revision += "-dirty"
	}
	return versionDevel + "+" + revision
}

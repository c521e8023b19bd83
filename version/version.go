package version

import (
	"runtime/debug"
	"sync"
)

// Set with -ldflags -X at build time. Empty values fall back to the VCS
// stamp the Go toolchain embeds in the binary.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	IsDirty   bool   `json:"is_dirty"`
}

const shortCommit = 7

var current = sync.OnceValue(func() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
})

// GetVersionInfo returns the build information of this binary.
func GetVersionInfo() Info {
	return current()
}

// GetShortVersion returns "<version>[-<commit>][-dirty]", used as the
// service version when none is configured.
func GetShortVersion() string {
	return GetVersionInfo().Short()
}

// Short formats the version for logs and the startup summary.
func (i Info) Short() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
		if i.IsDirty {
			s += "-dirty"
		}
	}
	return s
}

func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildTime: BuildTime}
	if bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
	if len(info.GitCommit) > shortCommit {
		info.GitCommit = info.GitCommit[:shortCommit]
	}
	return info
}

// Package buildinfo reports which modeler binary is running.
package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Set through -ldflags "-X" for release binaries; empty in local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// ModulePath is reported when the binary carries no module information.
const ModulePath = "github.com/aidanlsb/modeler"

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var read = debug.ReadBuildInfo

// Current merges the embedded module and VCS metadata with the ldflags
// values. Embedded values win.
func Current() Info {
	info := Info{
		Version:    "devel",
		ModulePath: ModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := read(); ok && bi != nil {
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		if v := bi.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		if settings["GOOS"] != "" && settings["GOARCH"] != "" {
			info.Platform = settings["GOOS"] + "/" + settings["GOARCH"]
		}
		info.Commit = settings["vcs.revision"]
		info.CommitTime = settings["vcs.time"]
		info.Modified = settings["vcs.modified"] == "true"
	}

	if info.Version == "devel" && Version != "" {
		info.Version = Version
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
	return info
}

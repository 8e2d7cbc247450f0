// Package settings provides build metadata and per-run settings shared by
// the refx command tree.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "refx"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Run holds the resolved settings for a single invocation: where datasets
// come from, which one is active, and how output should look.
type Run struct {
	MinLogLevel int8
	DataRoot    string
	BaseURL     string
	Language    string
	Interactive bool
	NoColor     bool
	Watch       bool
}

// RemoteData reports whether datasets are fetched over HTTP.
func (r *Run) RemoteData() bool {
	return r != nil && r.BaseURL != ""
}

// NewCliParams returns the defaults used before config and flags apply.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		DataRoot:    ".",
	}
}

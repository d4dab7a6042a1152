package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Product is the name sent to upstream APIs and reported by the MCP server.
const Product = "qntx-eurostat"

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("%s %s (commit %s, built %s)", Product, i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("%s dev (commit %s, built %s)", Product, i.CommitHash, i.BuildTime)
}

// Semver returns the normalized release version, or "" for untagged builds.
// Tags like "v1.4.0" and "1.4" are both accepted.
func (i Info) Semver() string {
	v, err := semver.NewVersion(i.Version)
	if err != nil {
		return ""
	}
	return v.String()
}

// UserAgent is the fixed identifying header sent with every upstream request.
func UserAgent() string {
	info := Get()
	if v := info.Semver(); v != "" {
		return fmt.Sprintf("%s/%s (+https://github.com/teranos/qntx-eurostat)", Product, v)
	}
	return fmt.Sprintf("%s/dev-%s (+https://github.com/teranos/qntx-eurostat)", Product, info.Short())
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

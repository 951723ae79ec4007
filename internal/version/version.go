package version

// Version is the semantic version for this build; overridden with -ldflags -X.
var Version = "dev"

// Build is the VCS revision; may be empty.
var Build = ""

// BuildDate is the UTC RFC3339 build timestamp; injected at build time.
var BuildDate = ""

// Info is the body served on /version.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}

func Get(service string) Info {
	return Info{Service: service, Version: Full(), GitCommit: Build, BuildDate: BuildDate}
}

func Full() string {
	if Build == "" {
		return Version
	}
	return Version + "+" + Build
}

package version

import (
	"fmt"
	"runtime"
	"time"
)

// Set with -ldflags "-X github.com/NeuralTrust/TrustMod/pkg/version.Commit=..." at build time.
var (
	Version   = "0.4.0"
	AppName   = "TrustMod"
	Commit    = "dev"
	BuildDate = "unknown"
)

var startedAt = time.Now()

type Info struct {
	AppName   string `json:"app_name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Uptime    string `json:"uptime"`
}

func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Uptime:    time.Since(startedAt).Truncate(time.Second).String(),
	}
}

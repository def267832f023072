package version

import "fmt"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Name is the binary name used in banners and log lines.
const Name = "podinsights"

func String() string {
	base := Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" built %s", Date)
	}
	return base
}

func Banner() string { return Name + " " + String() }

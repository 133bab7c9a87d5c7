// teamkit is a set of headless terminal UI widgets (dropdown, select, tabs,
// modal and image upload) with a themed "create team" demo.
//
// Usage:
//
//	teamkit demo [--config path] [--log-json]
//	teamkit tokens [--format yaml|toml] [--theme name]
//	teamkit config [--default]
//	teamkit version
package main

import (
	"gitlab.com/tinyland/lab/teamkit/cmd"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	cmd.SetVersion(version, commit, date)
	cmd.Execute()
}

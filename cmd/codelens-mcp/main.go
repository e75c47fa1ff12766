// Command codelens-mcp is the server binary: it parses flags, loads
// configuration, and runs the MCP tool dispatcher over stdio or HTTP. All of
// the actual wiring lives in package pkg so it stays testable independent of
// os.Exit.
package main

import (
	"fmt"
	"os"

	"github.com/codelens-dev/codelens-mcp/pkg"
)

// version and commit are set via -ldflags at release build time
// (-X main.version=... -X main.commit=...); dev builds leave them at their
// zero values.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	pkg.SetVersion(version, commit)
	if err := pkg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the hubcat CLI tool.
package main

import (
	"github.com/modelinghub/hubcat/internal/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version, commit)
}

package main

import (
	_ "embed"
	"os"
	"strings"

	"mediasort/cmd"
)

//go:embed VERSION
var embeddedVersion string

func init() {
	v := strings.TrimSpace(embeddedVersion)
	if v != "" && cmd.Version == "dev" {
		cmd.Version = v
	}
	// Re-apply to Cobra command after updating Version.
	cmd.ApplyVersion()
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

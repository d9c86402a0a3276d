// main is the entry point for the patchgate CLI.
package main

import (
	"github.com/patchgate/patchgate/cmd"
	"github.com/patchgate/patchgate/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("patchgate failed", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogFatal("profiling teardown failed", err)
	}
}

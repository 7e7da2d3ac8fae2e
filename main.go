// Entrypoint for the vle Cobra CLI; all flag/subcommand wiring lives in
// cmd/root.go.
package main

import (
	"github.com/vle-sim/vle/cmd"
)

func main() {
	cmd.Execute()
}

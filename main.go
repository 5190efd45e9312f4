// The main package for the jobrake executable.
package main

import (
	"github.com/jobrake/jobrake/cmd"
)

// main defers all execution to the Cobra CLI layer.
func main() {
	cmd.Execute()
}

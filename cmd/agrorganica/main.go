// Command agrorganica is the farm record keeper. Without a subcommand it
// opens the interactive menu.
package main

import "github.com/mesh-intelligence/agrorganica/internal/cli"

func main() {
	cli.Execute()
}

// Command admit-gate evaluates clinical admission criteria.
package main

import "github.com/Sentinel-Gate/admitgate/cmd/admit-gate/cmd"

func main() {
	cmd.Execute()
}

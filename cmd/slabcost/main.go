// SlabCost: formula-driven furniture process time and cost estimation.
//
// Estimates machining time and cost for furniture components and products
// from editable duration formulas, equipment rates and a labor-based quote.
//
// Build:
//   go build -o slabcost ./cmd/slabcost
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o slabcost.exe ./cmd/slabcost
//   GOOS=darwin  GOARCH=arm64 go build -o slabcost-darwin ./cmd/slabcost

package main

import (
	"os"

	"github.com/piwi3910/SlabCost/internal/cli"
)

func main() {
	if err := cli.BuildCLI().Execute(); err != nil {
		os.Exit(1)
	}
}

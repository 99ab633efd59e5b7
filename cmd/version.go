package cmd

import (
	"github.com/rubentalstra/OpCore-Simplify/internal/brand"
)

// RunVersion prints version and build metadata.
func RunVersion() {
	Printer.Printf("%s %s\n", brand.Name, brand.Version)
	Printer.Printf("  commit: %s\n", brand.GitCommit)
	Printer.Printf("  built:  %s\n", brand.BuildTime)
}

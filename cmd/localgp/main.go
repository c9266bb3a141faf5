// Package main provides the localgp CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("localgp %s\n", version)
	case "sweep":
		if err := runSweep(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "sweep: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("localgp - local Gaussian process kernel, solve and loss core")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  sweep      Leave-one-out length_scale sweep on synthetic 1D data")
	fmt.Println("")
	fmt.Println("Run 'localgp sweep -h' for sweep flags.")
}

// Package main provides the entry point for ssabench.
// ssabench times repeated runs of a stochastic simulation algorithm library.
//
// For the full CLI, use: go run ./cmd/ssabench
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("ssabench - SSA timing benchmark")
	fmt.Println("")
	fmt.Println("Usage: ssabench [options] model_name tfinal nsaves nreal seed n_sample")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -methods     Comma separated methods (Direct, FRM, NRM, TauLeap)")
	fmt.Println("  -out-dir     Directory for result files (default: stochpy)")
	fmt.Println("  -config      Path to simulator tuning JSON file")
	fmt.Println("  -summary     Print a result table after the run")
	fmt.Println("  -progress    Draw a progress bar on stderr")
	fmt.Println("  -cpuprofile  Write a CPU profile to file")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/ssabench' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/ssabench' instead.")
	}
}

// Command tokmatch registers YAML match rules and prints the matches they
// produce over a YAML document file.
//
//	tokmatch --rules rules.yaml --docs docs.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

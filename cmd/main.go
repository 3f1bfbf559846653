package main

import (
	"fmt"
	"os"
)

// x509view - decode and verify X.509 certificates from the command line
// or over HTTP.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

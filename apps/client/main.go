// Command client is the command line front end of the account flows.
// It calls the API and falls back to a local mock store when the API fails.
package main

import (
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

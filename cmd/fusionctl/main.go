// Package main is the entry point for fusionctl.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/javanstorm/fusionctl/internal/cli"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Package main is the readycheck entry point. All wiring lives in
// internal/cli; main only translates the outcome into a process exit code.
package main

import (
	"context"
	"os"

	"github.com/jsamuelsen11/readycheck/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:]))
}

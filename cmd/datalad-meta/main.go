package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/dmgolembiowski/datalad/internal/cli"
	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(datalad.ExitPanic)
		}
	}()

	if os.Getenv("DATALAD_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(datalad.ExitCodeForError(err))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"request_verifier/presentation/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// After the first signal, a second one terminates the process.
	context.AfterFunc(ctx, stop)

	if err := cli.Execute(ctx, os.Stdout, os.Args[1:]); err != nil {
		stop()
		if !errors.Is(err, cli.ErrVerificationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

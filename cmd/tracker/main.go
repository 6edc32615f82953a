package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/trackly/tracker/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", cli.ErrorMessage(err))
		os.Exit(1)
	}
}

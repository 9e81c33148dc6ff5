package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("command failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}

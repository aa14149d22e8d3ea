// Package main is the errorfree command: the text correction HTTP service,
// its background scheduler and database migrations.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

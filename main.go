package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fieldline-hq/fieldline/pkg/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(context.Background(), os.Args, version); err != nil {
		fmt.Fprintln(os.Stderr, "fieldline:", err)
		os.Exit(1)
	}
}

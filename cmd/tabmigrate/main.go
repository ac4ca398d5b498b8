package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), newRootOpts(os.Stdout, os.Stderr), os.Args[1:]))
}

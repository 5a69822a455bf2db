package main

import (
	"context"
	"os"
)

func main() {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	err := a.command().ExecuteContext(context.Background())
	if err != nil {
		a.reportError(err)
	}
	a.close()
	if err != nil {
		os.Exit(1)
	}
}

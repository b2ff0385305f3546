package main

import (
	"os"

	"github.com/utrpipe/utrpipe/internal/app/assemble"
)

func main() {
	os.Exit(assemble.Run(os.Args[1:], os.Stdout, os.Stderr))
}

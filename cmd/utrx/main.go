package main

import (
	"os"

	"github.com/utrpipe/utrpipe/internal/app/utrx"
)

func main() {
	os.Exit(utrx.Run(os.Args[1:], os.Stdout, os.Stderr))
}

package main

import (
	"os"

	"github.com/the-maldridge/hookmirror/cmd/hookmirror/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/abhisek/emtquiz/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

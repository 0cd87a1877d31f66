package main

import (
	"os"

	"github.com/kyleseneker/rating-prompt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

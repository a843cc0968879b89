package main

import (
	"os"

	"github.com/mmrzaf/csvanon/internal/config"
)

func main() {
	cfg := config.Load()
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

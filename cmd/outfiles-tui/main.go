package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/outfiles/internal/config"
	"github.com/handiism/outfiles/internal/tui"
)

func main() {
	configFlag := flag.String("config", "outfiles.toml", "Path to config file")
	flag.Parse()

	settings, err := config.LoadSettings(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	res, err := tui.Run(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
		os.Exit(1)
	}
}

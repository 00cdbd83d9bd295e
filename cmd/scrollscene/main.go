package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gekko3d/scrollscene"
)

func main() {
	configPath := flag.String("config", "", "YAML config file; unset fields keep their defaults")
	debug := flag.Bool("debug", false, "enable debug logging")
	width := flag.Int("width", 0, "window width, overrides the config")
	height := flag.Int("height", 0, "window height, overrides the config")
	dumpConfig := flag.Bool("dump-config", false, "print the effective config and exit")
	flag.Parse()

	cfg := scrollscene.DefaultConfig()
	if *configPath != "" {
		loaded, err := scrollscene.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scrollscene: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *debug {
		cfg.Log.Debug = true
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "scrollscene: %v\n", err)
		os.Exit(1)
	}

	if *dumpConfig {
		out, err := cfg.YAML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "scrollscene: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	scrollscene.BuildApp(cfg).Run()
}

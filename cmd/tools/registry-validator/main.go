// cmd/tools/registry-validator/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sorabhv/social-media-strategist/pkg/registry"
)

func main() {
	path := flag.String("path", "configs/stage-registry.json", "Path to stage registry file")
	show := flag.Bool("show", false, "Print the stages after validating")
	flag.Parse()

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		fmt.Printf("Error loading registry: %v\n", err)
		os.Exit(1)
	}

	if err := reg.Validate(); err != nil {
		fmt.Printf("Registry invalid: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Registry valid: %d stages (version %s)\n", len(reg.Stages), reg.Version)

	if *show {
		for _, s := range reg.Stages {
			fmt.Printf("  %-20s %-10s timeout=%s retries=%d upstream=%v\n",
				s.ID, s.Category, s.Timeout, s.Retries, s.Upstream)
		}
	}
}

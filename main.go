package main

import (
	"fmt"
	"os"

	"github.com/tanpawarit/memagent/cmd"
	_ "github.com/tanpawarit/memagent/pkg/logger/autoload"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

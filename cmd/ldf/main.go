package main

import (
	"fmt"
	"os"

	"github.com/hpctools/ldf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ldf:", err)
		os.Exit(1)
	}
}

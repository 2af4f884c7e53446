package main

import (
	"fmt"
	"os"

	"github.com/DennisSchulmeister/interview-analysis/internal/cli"
	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", errs.Describe(err), err)
		os.Exit(1)
	}
}

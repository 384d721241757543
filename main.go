package main

import (
	"context"
	"fmt"
	"os"

	"page-pipeline/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "page-pipeline: %v\n", err)
		os.Exit(1)
	}
}

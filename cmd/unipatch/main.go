package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/unipatch/unipatch/cmd/unipatch/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
			os.Exit(1)
		}
	}

	os.Exit(cmd.Execute())
}

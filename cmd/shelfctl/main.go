package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/me/shelfctl/internal/cli"
)

func main() {
	// A .env in the working directory may set SHELFCTL_SERVER.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

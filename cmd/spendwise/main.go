package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spendwise-dev/spendwise/internal/commands"
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

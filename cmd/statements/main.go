package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cleared-dev/statements/internal/commands"
)

func main() {
	// A project-local .env may carry the Postgres DSN.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

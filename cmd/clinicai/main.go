// Package main provides the clinicai command-line interface.
package main

import (
	"github.com/joho/godotenv"

	"github.com/clinicai/clinicai-go/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}

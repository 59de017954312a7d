package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// @title Archiv API
// @version 1.0
// @description Lists and streams the course PDFs of the Archiv portal.
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

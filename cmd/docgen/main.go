// Package main provides the entry point for the docgen service and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docgen",
	Short: "Tailored resume and cover letter generation service",
	Long:  "docgen runs a step-driven pipeline that produces tailored resumes and cover letters with an AI provider, renders them to PDF, and uploads the documents to blob storage.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

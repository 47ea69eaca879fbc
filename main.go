package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	apiKey     string
	allDays    bool
	debugMode  bool
	dryRun     bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "lunch-mail",
	Short: "Daily lunch menu email assembled with AI",
	Long:  `A batch job that scrapes restaurant lunch pages, caches the day's menus, and emails an AI-composed lunch menu to colleagues.`,
	Run: func(cmd *cobra.Command, args []string) {
		godotenv.Load()

		if debugMode {
			SetDebugMode(true)
		}

		config, err := LoadConfig(apiKey, allDays, dryRun, configFile)
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}

		processor, err := NewLunchProcessor(config)
		if err != nil {
			log.Fatalf("Failed to create processor: %v", err)
		}

		runErr := processor.Run()
		if err := processor.Close(); err != nil {
			log.Printf("Warning: closing cache store: %v", err)
		}
		if runErr != nil {
			log.Fatalf("Run failed: %v", runErr)
		}
	},
}

func init() {
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	rootCmd.Flags().BoolVar(&allDays, "all-days", false, "Send the next Monday's menu even on weekends and holidays")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compose and print the email without sending it")
	rootCmd.Flags().StringVar(&configFile, "config", "", "Path to settings file (default .lunchbot/settings.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

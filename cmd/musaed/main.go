package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "musaed",
		Short:         "Musaed: a fast Arabic assistant with cached answers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newAskCmd(&configPath),
		newChatCmd(&configPath),
		newCodeCmd(&configPath),
		newKnowledgeCmd(&configPath),
		newCacheCmd(),
		newHistoryCmd(&configPath),
		newMCPCmd(&configPath),
	)
	return root
}

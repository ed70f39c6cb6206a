package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/solardash/internal/fetcher"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the dashboard backend",
	Long:  `Calls the backend health endpoint and prints its status.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	client := fetcher.New(cfg.GetBaseURL())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("checking %s: %w", client.BaseURL(), err)
	}

	fmt.Printf("Backend:   %s\n", client.BaseURL())
	fmt.Printf("Status:    %s\n", h.Status)
	if h.Message != "" {
		fmt.Printf("Message:   %s\n", h.Message)
	}
	if h.Timestamp != "" {
		fmt.Printf("Timestamp: %s\n", h.Timestamp)
	}
	return nil
}

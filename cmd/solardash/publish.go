package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	publishBacklog bool
	publishLimit   int
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish current dashboard values to MQTT",
	Long: `Loads the dashboard once and publishes the summary metrics and EV status as
retained messages under the configured topic prefix. With --backlog, also publishes
recorded snapshots that have not been published yet.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().BoolVar(&publishBacklog, "backlog", false, "Also publish unpublished history records")
	publishCmd.Flags().IntVar(&publishLimit, "limit", 0, "Limit number of backlog records to publish (0 = no limit)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	sess, err := newSession(cfg, logger, sessionOptions{history: publishBacklog, mqtt: true})
	if err != nil {
		return err
	}
	defer sess.close(context.Background())

	if err := sess.scheduler.RefreshAll(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	var topics []string
	for _, name := range sess.mqtt.published() {
		topics = append(topics, sess.pub.Topic(name))
	}
	msg, err := publishedMessage(topics)
	if err != nil {
		if !publishBacklog {
			return err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Println(msg)
	}

	if !publishBacklog {
		return nil
	}

	records, err := sess.db.ListUnpublishedMetrics()
	if err != nil {
		return fmt.Errorf("listing unpublished snapshots: %w", err)
	}
	if publishLimit > 0 && len(records) > publishLimit {
		records = records[:publishLimit]
	}

	published := 0
	for _, rec := range records {
		if err := sess.pub.PublishRecord(rec); err != nil {
			fmt.Printf("✗ Failed to publish snapshot %d: %v\n", rec.ID, err)
			continue
		}
		if err := sess.db.MarkPublished(rec.ID); err != nil {
			fmt.Printf("Warning: published snapshot %d but failed to mark it: %v\n", rec.ID, err)
		}
		published++
	}

	fmt.Printf("✓ Published %d of %d backlog snapshots to %s\n", published, len(records), sess.pub.Topic("history"))
	return nil
}

// publishedMessage reports the topics the current values went to
func publishedMessage(topics []string) (string, error) {
	if len(topics) == 0 {
		return "", fmt.Errorf("no current values were published")
	}
	return fmt.Sprintf("✓ Published current values to %s", strings.Join(topics, " and ")), nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/solardash/internal/terminal"
)

var watchNoClear bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show the live dashboard in the terminal",
	Long: `Loads the dashboard, refreshes summary metrics and EV status on the configured
interval and repaints the terminal after every update. Type a period (today, week,
month, all) and press enter to change the filter; type q to quit.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchNoClear, "no-clear", false, "Append each repaint instead of clearing the screen")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	sess, err := newSession(cfg, logger, sessionOptions{})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := terminal.New()
	sess.page.OnChange(func() {
		if !watchNoClear {
			fmt.Print("\033[H\033[2J")
		}
		fmt.Print(view.Render(sess.page.Snapshot(), time.Now()))
	})

	sess.logHealth(ctx)
	sess.scheduler.Start(ctx)
	defer sess.close(context.Background())

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed; keep refreshing until interrupted
				lines = nil
				continue
			}
			switch line {
			case "":
			case "q", "quit", "exit":
				return nil
			default:
				if !sess.scheduler.SetPeriod(line) {
					fmt.Println("This layout has no period filter")
				}
			}
		}
	}
}

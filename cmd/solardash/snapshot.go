package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/solardash/internal/display"
	"github.com/jgoulah/solardash/internal/terminal"
	"github.com/jgoulah/solardash/internal/web"
)

var (
	snapshotOut    string
	snapshotPeriod string
	snapshotQuiet  bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Load the dashboard once and print it",
	Long: `Performs a full dashboard load (summary metrics, energy balance, breakdown, EV
status and insights), prints the terminal view and exits. With --out, also writes
index.html and the chart SVGs to a directory.`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "", "Directory to write index.html and charts/ into (default from config output_dir)")
	snapshotCmd.Flags().StringVar(&snapshotPeriod, "period", "", "Period to load (default from config)")
	snapshotCmd.Flags().BoolVarP(&snapshotQuiet, "quiet", "q", false, "Don't print the terminal view")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if snapshotPeriod != "" {
		cfg.DefaultPeriod = snapshotPeriod
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
	defer sess.close(context.Background())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := sess.scheduler.RefreshAll(ctx); err != nil {
		// partial pages are still worth showing
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	snap := sess.page.Snapshot()
	if !snapshotQuiet {
		fmt.Print(terminal.New().Render(snap, time.Time{}))
	}

	// output_dir in the config turns on file output without the flag
	if snapshotOut != "" || cfg.OutputDir != "" {
		dir := snapshotOut
		if dir == "" {
			dir = cfg.GetOutputDir()
		}
		if err := writeSnapshot(dir, snap); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", filepath.Join(dir, "index.html"))
	}

	return nil
}

// writeSnapshot saves the page as a static site under dir
func writeSnapshot(dir string, snap display.Snapshot) error {
	chartDir := filepath.Join(dir, "charts")
	if err := os.MkdirAll(chartDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, id := range snap.Order {
		st, _ := snap.Get(id)
		if st.Drawing == nil || len(st.Drawing.SVG) == 0 {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(web.StaticChartURL(id, snap.Version)))
		if err := os.WriteFile(path, st.Drawing.SVG, 0644); err != nil {
			return fmt.Errorf("writing chart %s: %w", id, err)
		}
	}

	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return fmt.Errorf("creating index.html: %w", err)
	}
	defer f.Close()

	return web.WriteStatic(f, snap)
}

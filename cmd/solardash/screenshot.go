package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/solardash/internal/screenshot"
	"github.com/jgoulah/solardash/internal/web"
)

var (
	screenshotOut     string
	screenshotURL     string
	screenshotWidth   int64
	screenshotHeight  int64
	screenshotVisible bool
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the dashboard as an image",
	Long: `Loads the dashboard once, serves it on a local port and captures a full-page
screenshot with headless Chrome. With --url, captures an already running
'solardash serve' instead.`,
	RunE: runScreenshot,
}

func init() {
	screenshotCmd.Flags().StringVarP(&screenshotOut, "out", "o", "dashboard.png", "Output image file")
	screenshotCmd.Flags().StringVar(&screenshotURL, "url", "", "Capture this dashboard URL instead of a fresh load")
	screenshotCmd.Flags().Int64Var(&screenshotWidth, "width", 0, "Viewport width (default 1280)")
	screenshotCmd.Flags().Int64Var(&screenshotHeight, "height", 0, "Viewport height (default 900)")
	screenshotCmd.Flags().BoolVar(&screenshotVisible, "visible", false, "Show the browser window")
	rootCmd.AddCommand(screenshotCmd)
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	target := screenshotURL

	if target == "" {
		sess, err := newSession(cfg, logger, sessionOptions{})
		if err != nil {
			return err
		}
		defer sess.close(ctx)

		if err := sess.scheduler.RefreshAll(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("listening on local port: %w", err)
		}
		srv := &http.Server{Handler: web.NewHandler(sess.page, sess.scheduler, 0, logger).Routes()}
		go srv.Serve(ln)
		defer srv.Close()

		target = "http://" + ln.Addr().String() + "/"
	}

	opts := screenshot.DefaultOptions()
	opts.Width = screenshotWidth
	opts.Height = screenshotHeight
	opts.Headless = !screenshotVisible

	fmt.Printf("Capturing %s...\n", target)
	img, err := screenshot.Capture(ctx, target, opts)
	if err != nil {
		return err
	}

	if err := os.WriteFile(screenshotOut, img, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", screenshotOut, err)
	}
	fmt.Printf("✓ Saved %s (%d bytes)\n", screenshotOut, len(img))
	return nil
}

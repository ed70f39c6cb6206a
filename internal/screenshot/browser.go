// Package screenshot captures the HTTP dashboard view with headless Chrome.
package screenshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// Options controls the captured image
type Options struct {
	Width        int64
	Height       int64
	Quality      int // PNG when 100, JPEG otherwise
	WaitSelector string
	Settle       time.Duration // extra wait for chart images to load
	Timeout      time.Duration
	Headless     bool
}

// DefaultOptions returns a 1280x900 lossless headless capture
func DefaultOptions() Options {
	return Options{
		Width:        1280,
		Height:       900,
		Quality:      100,
		WaitSelector: "body",
		Settle:       500 * time.Millisecond,
		Timeout:      30 * time.Second,
		Headless:     true,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = d.Quality
	}
	if o.WaitSelector == "" {
		o.WaitSelector = d.WaitSelector
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// Capture loads url and returns a full-page screenshot
func Capture(ctx context.Context, url string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(int(opts.Width), int(opts.Height)),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(opts.Width, opts.Height, 1, false).Do(ctx)
		}),
		chromedp.Navigate(url),
		chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.FullScreenshot(&buf, opts.Quality),
	); err != nil {
		return nil, fmt.Errorf("capturing %s: %w", url, err)
	}

	return buf, nil
}

package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"outreach-crm/internal/intel"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

const defaultTimeout = 45 * time.Second

// Scraper fetches visible page text with a headless browser. It satisfies
// intel.Fetcher; navigation failures come back as an error-marker payload
// so the gatherer can classify them without type inspection.
type Scraper struct {
	Timeout  time.Duration
	Disabled bool
}

func New(disabled bool) *Scraper {
	return &Scraper{Timeout: defaultTimeout, Disabled: disabled}
}

func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	if s.Disabled {
		return intel.ScrapeErrorPrefix + ": scraping disabled", nil
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var text string
	err := chromedp.Run(runCtx,
		emulation.SetDeviceMetricsOverride(1366, 900, 1.0, false),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Sprintf("%s: %v", intel.ScrapeErrorPrefix, err), nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return intel.ScrapeErrorPrefix + ": page rendered no text", nil
	}
	return text, nil
}

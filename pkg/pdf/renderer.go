package pdf

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper size in inches, matching the print format of the export.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
)

// Renderer turns an HTML document into paginated PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer renders HTML with a headless Chrome instance. Every call
// starts its own browser context and tears it down before returning, so
// concurrent exports do not share renderer state and no browser process
// outlives its request.
type ChromeRenderer struct {
	// ExecPath optionally points at a specific Chrome/Chromium binary.
	ExecPath string
}

func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{ExecPath: execPath}
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	url := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var buf []byte
	err := chromedp.Run(browserCtx,
		enableLifecycleEvents(),
		navigateAndWaitNetworkIdle(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render html to pdf: %w", err)
	}
	return buf, nil
}

func enableLifecycleEvents() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		return page.SetLifecycleEventsEnabled(true).Do(ctx)
	}
}

// navigateAndWaitNetworkIdle navigates and blocks until Chrome reports the
// networkIdle lifecycle event, so embedded images are loaded before capture.
func navigateAndWaitNetworkIdle(url string) chromedp.ActionFunc {
	return func(ctx context.Context) error {
		idle := make(chan struct{}, 1)
		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		chromedp.ListenTarget(listenCtx, func(ev interface{}) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok && e.Name == "networkIdle" {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		})

		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}

		select {
		case <-idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package csdn

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// Renderer returns the html of a page after it has been rendered by
// something that can get past an anti-bot interstitial.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// BrowserRenderer renders pages in a headless chrome with stealth patches
// applied. chrome is downloaded by the launcher the first time it is used.
type BrowserRenderer struct {
	// how long the page must stay without network activity to count as loaded
	Settle  time.Duration
	Timeout time.Duration
}

func NewBrowserRenderer() BrowserRenderer {
	return BrowserRenderer{
		Settle:  2 * time.Second,
		Timeout: time.Minute,
	}
}

func (b BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(true)
	defer l.Cleanup()

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return "", fmt.Errorf("create stealth page: %w", err)
	}
	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitStable(b.Settle); err != nil {
		return "", fmt.Errorf("wait for page stable: %w", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read rendered html: %w", err)
	}
	return html, nil
}

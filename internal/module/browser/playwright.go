package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightRenderer drives a headless Chromium through playwright.
// Every Open starts its own driver and browser so sessions never share state.
type PlaywrightRenderer struct {
	headless bool
}

// NewPlaywrightRenderer creates a renderer for headless Chromium
func NewPlaywrightRenderer(headless bool) *PlaywrightRenderer {
	return &PlaywrightRenderer{headless: headless}
}

func (r *PlaywrightRenderer) Name() string {
	return "playwright"
}

func (r *PlaywrightRenderer) Open(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return &playwrightPage{pw: pw, browser: b, page: page}, nil
}

type playwrightPage struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func (p *playwrightPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(millis(ctx, timeout)),
	})
	return err
}

func (p *playwrightPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(ctx, timeout)),
	})
}

func (p *playwrightPage) All(selector string) ([]Node, error) {
	return wrapLocators(p.page.Locator(selector).All())
}

func (p *playwrightPage) Close() error {
	return errors.Join(p.browser.Close(), p.pw.Stop())
}

type playwrightNode struct {
	loc playwright.Locator
}

func (n playwrightNode) All(selector string) ([]Node, error) {
	return wrapLocators(n.loc.Locator(selector).All())
}

func (n playwrightNode) Text() (string, error) {
	return n.loc.InnerText()
}

func (n playwrightNode) Attr(name string) (string, error) {
	return n.loc.GetAttribute(name)
}

func wrapLocators(locs []playwright.Locator, err error) ([]Node, error) {
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(locs))
	for _, l := range locs {
		nodes = append(nodes, playwrightNode{loc: l})
	}
	return nodes, nil
}

// millis caps timeout by the context deadline, since playwright calls do not
// take a context
func millis(ctx context.Context, timeout time.Duration) float64 {
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout < time.Millisecond {
		timeout = time.Millisecond
	}
	return float64(timeout.Milliseconds())
}

package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoCards = errors.New("no element matches selector")

// StaticRenderer fetches server-rendered HTML without executing scripts.
// It is enough for boards that render their listings on the server.
type StaticRenderer struct {
	client    *http.Client
	userAgent string
}

// NewStaticRenderer creates a renderer using plain HTTP and goquery
func NewStaticRenderer(userAgent string) *StaticRenderer {
	return &StaticRenderer{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

func (r *StaticRenderer) Name() string {
	return "static"
}

func (r *StaticRenderer) Open(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &staticPage{renderer: r}, nil
}

type staticPage struct {
	renderer *StaticRenderer
	doc      *goquery.Document
}

func (p *staticPage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if p.renderer.userAgent != "" {
		req.Header.Set("User-Agent", p.renderer.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.renderer.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	p.doc = doc
	return nil
}

// WaitFor does not wait: a static document either has the element or not
func (p *staticPage) WaitFor(ctx context.Context, selector string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.doc == nil {
		return errors.New("page not loaded")
	}
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w %q", ErrNoCards, selector)
	}
	return nil
}

func (p *staticPage) All(selector string) ([]Node, error) {
	if p.doc == nil {
		return nil, errors.New("page not loaded")
	}
	return wrapSelection(p.doc.Find(selector)), nil
}

func (p *staticPage) Close() error {
	p.doc = nil
	return nil
}

type staticNode struct {
	sel *goquery.Selection
}

func (n staticNode) All(selector string) ([]Node, error) {
	return wrapSelection(n.sel.Find(selector)), nil
}

func (n staticNode) Text() (string, error) {
	return strings.TrimSpace(n.sel.Text()), nil
}

func (n staticNode) Attr(name string) (string, error) {
	val, _ := n.sel.Attr(name)
	return val, nil
}

func wrapSelection(s *goquery.Selection) []Node {
	nodes := make([]Node, 0, s.Length())
	s.Each(func(_ int, el *goquery.Selection) {
		nodes = append(nodes, staticNode{sel: el})
	})
	return nodes
}

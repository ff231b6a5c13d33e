package browser

import (
	"context"
	"time"
)

// Renderer launches isolated rendering sessions
type Renderer interface {
	// Open starts a fresh session. The caller must Close the returned page.
	Open(ctx context.Context) (Page, error)
	Name() string
}

// Page is one rendered page inside a session
type Page interface {
	Goto(ctx context.Context, url string, timeout time.Duration) error
	// WaitFor blocks until at least one element matches selector
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	All(selector string) ([]Node, error)
	// Close releases the page and its whole session
	Close() error
}

// Node is an element located on a page
type Node interface {
	// All returns the elements matching selector within this node
	All(selector string) ([]Node, error)
	Text() (string, error)
	// Attr returns "" when the attribute is missing
	Attr(name string) (string, error)
}

package interfaces

import (
	"context"

	"request_verifier/domain/entities"
)

// BrowserController defines the interface for browser automation
type BrowserController interface {
	// Name returns the backend name, e.g. "playwright"
	Name() string

	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// WaitVisible waits until the target is visible or the timeout passes
	WaitVisible(ctx context.Context, target entities.Target) error

	// IsVisible reports whether the target is currently visible
	IsVisible(ctx context.Context, target entities.Target) (bool, error)

	// Click clicks on the target
	Click(ctx context.Context, target entities.Target) error

	// Fill replaces the value of an input or textarea
	Fill(ctx context.Context, target entities.Target, text string) error

	// WaitForURL waits until the page URL matches a glob pattern
	WaitForURL(ctx context.Context, pattern string) error

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// InnerText returns the rendered text of the target
	InnerText(ctx context.Context, target entities.Target) (string, error)

	// Screenshot writes a PNG of the viewport to path
	Screenshot(ctx context.Context, path string) error

	// Close closes the browser
	Close() error
}

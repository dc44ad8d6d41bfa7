package browser

import (
	"context"
	"fmt"
	"os"
	"strings"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type playwrightController struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options
	logger  *logrus.Logger
}

// NewPlaywrightController - starts Playwright and opens a Chromium page
func NewPlaywrightController(opts Options, logger *logrus.Logger) (interfaces.BrowserController, error) {
	if opts.Install && os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		logger.Info("Installing Playwright driver and Chromium")
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewportWidth,
			Height: viewportHeight,
		},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.timeout().Milliseconds()))

	logger.WithFields(logrus.Fields{
		"driver":   DriverPlaywright,
		"headless": opts.Headless,
	}).Debug("Browser launched")

	return &playwrightController{
		pw:      pw,
		browser: browser,
		context: bctx,
		page:    page,
		opts:    opts,
		logger:  logger,
	}, nil
}

func (b *playwrightController) Name() string {
	return DriverPlaywright
}

// locate - builds a locator for the first element matching the target
func (b *playwrightController) locate(target entities.Target) playwright.Locator {
	locator := b.page.Locator(target.CSS)
	if target.HasText != "" {
		locator = locator.Filter(playwright.LocatorFilterOptions{
			HasText: target.HasText,
		})
	}
	return locator.First()
}

func (b *playwrightController) timeoutMs() *float64 {
	return playwright.Float(float64(b.opts.timeout().Milliseconds()))
}

// abort - closing the page makes any pending Playwright wait return
func (b *playwrightController) abort() {
	if err := b.page.Close(); err != nil && !isClosedErr(err) {
		b.logger.WithError(err).Debug("Failed to close page on cancel")
	}
}

// Navigate - navigates to the specified URL
func (b *playwrightController) Navigate(ctx context.Context, url string) error {
	return interruptible(ctx, b.abort, func() error {
		_, err := b.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   b.timeoutMs(),
		})
		return err
	})
}

// WaitVisible - waits for an element to become visible
func (b *playwrightController) WaitVisible(ctx context.Context, target entities.Target) error {
	return interruptible(ctx, b.abort, func() error {
		return b.waitVisible(target)
	})
}

func (b *playwrightController) waitVisible(target entities.Target) error {
	err := b.locate(target).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: b.timeoutMs(),
	})
	if err != nil {
		return fmt.Errorf("element %s not found or not visible: %w", target, err)
	}
	return nil
}

func (b *playwrightController) IsVisible(ctx context.Context, target entities.Target) (bool, error) {
	var visible bool
	err := interruptible(ctx, b.abort, func() error {
		var err error
		visible, err = b.locate(target).IsVisible()
		return err
	})
	return visible, err
}

// Click - clicks on the element once it is visible
func (b *playwrightController) Click(ctx context.Context, target entities.Target) error {
	return interruptible(ctx, b.abort, func() error {
		if err := b.waitVisible(target); err != nil {
			return err
		}
		return b.locate(target).Click(playwright.LocatorClickOptions{
			Timeout: b.timeoutMs(),
		})
	})
}

// Fill - replaces the value of an input field
func (b *playwrightController) Fill(ctx context.Context, target entities.Target, text string) error {
	return interruptible(ctx, b.abort, func() error {
		if err := b.waitVisible(target); err != nil {
			return fmt.Errorf("input field not found: %w", err)
		}
		return b.locate(target).Fill(text, playwright.LocatorFillOptions{
			Timeout: b.timeoutMs(),
		})
	})
}

// WaitForURL - Playwright matches the glob natively
func (b *playwrightController) WaitForURL(ctx context.Context, pattern string) error {
	return interruptible(ctx, b.abort, func() error {
		err := b.page.WaitForURL(pattern, playwright.PageWaitForURLOptions{
			Timeout: b.timeoutMs(),
		})
		if err != nil {
			return fmt.Errorf("url %s never matched %s: %w", b.page.URL(), pattern, err)
		}
		return nil
	})
}

func (b *playwrightController) CurrentURL(ctx context.Context) (string, error) {
	return b.page.URL(), nil
}

func (b *playwrightController) InnerText(ctx context.Context, target entities.Target) (string, error) {
	var text string
	err := interruptible(ctx, b.abort, func() error {
		if err := b.waitVisible(target); err != nil {
			return err
		}
		var err error
		text, err = b.locate(target).InnerText(playwright.LocatorInnerTextOptions{
			Timeout: b.timeoutMs(),
		})
		return err
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Screenshot - takes a screenshot of the current page
func (b *playwrightController) Screenshot(ctx context.Context, path string) error {
	return interruptible(ctx, b.abort, func() error {
		_, err := b.page.Screenshot(playwright.PageScreenshotOptions{
			Path: playwright.String(path),
		})
		return err
	})
}

// Close - closes the page, context, browser and driver in that order
func (b *playwrightController) Close() error {
	var closeErr error
	record := func(what string, err error) {
		if err == nil || isClosedErr(err) {
			return
		}
		if closeErr != nil {
			closeErr = fmt.Errorf("%v; failed to close %s: %w", closeErr, what, err)
		} else {
			closeErr = fmt.Errorf("failed to close %s: %w", what, err)
		}
	}

	if b.context != nil {
		record("context", b.context.Close())
		b.context = nil
	}
	if b.browser != nil {
		record("browser", b.browser.Close())
		b.browser = nil
	}
	if b.pw != nil {
		record("playwright", b.pw.Stop())
		b.pw = nil
	}

	return closeErr
}

package browser

import (
	"context"
	"fmt"
	"os"
	"strings"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

type RodController struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     Options
	logger   *logrus.Logger
}

// NewRodController - launches Chrome through the rod launcher and opens a blank page
func NewRodController(opts Options, logger *logrus.Logger) (interfaces.BrowserController, error) {
	l := launcher.New().Headless(opts.Headless).NoSandbox(true)
	if bin := findChromeBinary(opts.ChromeBinary); bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if opts.SlowMo > 0 {
		browser = browser.SlowMotion(opts.SlowMo)
	}
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		logger.Warnf("Failed to set viewport: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"driver":   DriverRod,
		"headless": opts.Headless,
	}).Debug("Browser launched")

	return &RodController{
		launcher: l,
		browser:  browser,
		page:     page,
		opts:     opts,
		logger:   logger,
	}, nil
}

func (r *RodController) Name() string {
	return DriverRod
}

// scoped - page bound to ctx and the configured timeout. Call release once
// the page and elements found through it are no longer used.
func (r *RodController) scoped(ctx context.Context) (page *rod.Page, release func()) {
	page = r.page.Context(ctx).Timeout(r.opts.timeout())
	return page, func() { page.CancelTimeout() }
}

// element - waits for the first element matching the target
func element(page *rod.Page, target entities.Target) (*rod.Element, error) {
	if target.HasText == "" {
		return page.Element(target.CSS)
	}
	return page.ElementR(target.CSS, textRegex(target.HasText))
}

// visibleElement - waits for the target to exist and be visible
func visibleElement(page *rod.Page, target entities.Target) (*rod.Element, error) {
	el, err := element(page, target)
	if err != nil {
		return nil, fmt.Errorf("element %s not found: %w", target, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, fmt.Errorf("element %s not visible: %w", target, err)
	}
	return el, nil
}

func (r *RodController) Navigate(ctx context.Context, url string) error {
	page, release := r.scoped(ctx)
	defer release()

	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

func (r *RodController) WaitVisible(ctx context.Context, target entities.Target) error {
	page, release := r.scoped(ctx)
	defer release()

	_, err := visibleElement(page, target)
	return err
}

// IsVisible - checks the current DOM without waiting
func (r *RodController) IsVisible(ctx context.Context, target entities.Target) (bool, error) {
	page := r.page.Context(ctx)

	var (
		found bool
		el    *rod.Element
		err   error
	)
	if target.HasText == "" {
		found, el, err = page.Has(target.CSS)
	} else {
		found, el, err = page.HasR(target.CSS, textRegex(target.HasText))
	}
	if err != nil || !found {
		return false, err
	}
	return el.Visible()
}

func (r *RodController) Click(ctx context.Context, target entities.Target) error {
	page, release := r.scoped(ctx)
	defer release()

	el, err := visibleElement(page, target)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (r *RodController) Fill(ctx context.Context, target entities.Target, text string) error {
	page, release := r.scoped(ctx)
	defer release()

	el, err := element(page, target)
	if err != nil {
		return fmt.Errorf("input field not found: %w", err)
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("failed to select existing text: %w", err)
	}
	return el.Input(text)
}

func (r *RodController) WaitForURL(ctx context.Context, pattern string) error {
	var last string
	err := poll(ctx, r.opts.timeout(), func() (bool, error) {
		url, err := r.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		last = url
		return matchURL(pattern, url), nil
	})
	if err != nil {
		return fmt.Errorf("url %s never matched %s: %w", last, pattern, err)
	}
	return nil
}

func (r *RodController) CurrentURL(ctx context.Context) (string, error) {
	info, err := r.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (r *RodController) InnerText(ctx context.Context, target entities.Target) (string, error) {
	page, release := r.scoped(ctx)
	defer release()

	el, err := element(page, target)
	if err != nil {
		return "", fmt.Errorf("element %s not found: %w", target, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (r *RodController) Screenshot(ctx context.Context, path string) error {
	data, err := r.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (r *RodController) Close() error {
	var closeErr error
	if r.browser != nil {
		if err := r.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to close browser: %w", err)
		}
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return closeErr
}

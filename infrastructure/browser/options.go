package browser

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"request_verifier/domain/interfaces"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

const (
	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"
	DriverRod        = "rod"
)

const (
	defaultTimeout = 30 * time.Second
	pollInterval   = 100 * time.Millisecond
	viewportWidth  = 1280
	viewportHeight = 720
)

// Options configures every browser backend
type Options struct {
	Headless bool
	SlowMo   time.Duration
	Timeout  time.Duration
	// Install downloads the Playwright driver and Chromium before launch.
	Install bool
	// DriverPath and ChromeBinary are only read by the selenium backend.
	DriverPath   string
	ChromeBinary string
	DriverPort   int
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}

// Drivers - returns the supported backend names
func Drivers() []string {
	return []string{DriverPlaywright, DriverSelenium, DriverRod}
}

// New - launches the named backend
func New(driver string, opts Options, logger *logrus.Logger) (interfaces.BrowserController, error) {
	switch strings.ToLower(driver) {
	case "", DriverPlaywright:
		return NewPlaywrightController(opts, logger)
	case DriverSelenium:
		return NewSeleniumController(opts, logger)
	case DriverRod:
		return NewRodController(opts, logger)
	default:
		return nil, fmt.Errorf("unknown browser driver %q (supported: %s)", driver, strings.Join(Drivers(), ", "))
	}
}

var errNotYet = errors.New("condition not met")

// poll - calls check every pollInterval until it reports done, the timeout
// passes or ctx ends. On timeout the last error from check is wrapped.
func poll(ctx context.Context, timeout time.Duration, check func() (bool, error)) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = pollInterval
	b.MaxInterval = pollInterval
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = timeout

	err := backoff.Retry(func() error {
		done, err := check()
		if done {
			return nil
		}
		if err != nil {
			return err
		}
		return errNotYet
	}, backoff.WithContext(b, ctx))

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, errNotYet):
		return fmt.Errorf("timeout %s exceeded", timeout)
	default:
		return fmt.Errorf("timeout %s exceeded: %w", timeout, err)
	}
}

// interruptible - runs op, calling abort as soon as ctx is done so a blocked
// driver call returns. The context error wins over whatever op returned.
func interruptible(ctx context.Context, abort func(), op func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, abort)
	defer stop()

	err := op()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// textMatches - case-insensitive substring match, as Playwright's has-text
func textMatches(text, want string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(want))
}

// textRegex - JS regex literal matching want anywhere, ignoring case
func textRegex(want string) string {
	return "/" + strings.ReplaceAll(regexp.QuoteMeta(want), "/", `\/`) + "/i"
}

func isClosedErr(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}

package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

const defaultDriverPort = 9515

type SeleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	opts    Options
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	for _, path := range []string{configured, os.Getenv("BROWSER_DRIVER_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set BROWSER_DRIVER_PATH environment variable")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	for _, path := range []string{configured, os.Getenv("CHROME_BINARY_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// chromeArgs - command line flags for a fresh, optionally headless profile
func chromeArgs(opts Options) []string {
	args := []string{
		"--disable-dev-shm-usage",
		"--no-sandbox",
		fmt.Sprintf("--window-size=%d,%d", viewportWidth, viewportHeight),
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}
	return args
}

// NewSeleniumController - creates new Selenium browser controller instance
func NewSeleniumController(opts Options, logger *logrus.Logger) (interfaces.BrowserController, error) {
	driverPath, err := findChromeDriver(opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	chromeBinary := findChromeBinary(opts.ChromeBinary)
	if chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
	}

	port := opts.DriverPort
	if port == 0 {
		port = defaultDriverPort
	}

	service, err := selenium.NewChromeDriverService(driverPath, port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}
	chromeCaps := chrome.Capabilities{
		Args: chromeArgs(opts),
	}
	if chromeBinary != "" {
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if err := wd.SetPageLoadTimeout(opts.timeout()); err != nil {
		logger.Warnf("Failed to set page load timeout: %v", err)
	}

	return &SeleniumController{
		wd:      wd,
		service: service,
		opts:    opts,
		logger:  logger,
	}, nil
}

func (s *SeleniumController) Name() string {
	return DriverSelenium
}

// findElement - returns the first element matching the target, nil when absent
func (s *SeleniumController) findElement(target entities.Target) (selenium.WebElement, error) {
	elements, err := s.wd.FindElements(selenium.ByCSSSelector, target.CSS)
	if err != nil {
		return nil, err
	}

	for _, elem := range elements {
		if target.HasText == "" {
			return elem, nil
		}
		text, err := elem.Text()
		if err != nil {
			continue
		}
		if textMatches(text, target.HasText) {
			return elem, nil
		}
	}

	return nil, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Debugf("Navigating to: %s", url)
	return s.wd.Get(url)
}

func (s *SeleniumController) WaitVisible(ctx context.Context, target entities.Target) error {
	err := poll(ctx, s.opts.timeout(), func() (bool, error) {
		return s.IsVisible(ctx, target)
	})
	if err != nil {
		return fmt.Errorf("element %s not found or not visible: %w", target, err)
	}
	return nil
}

// IsVisible - checks if element is visible on page
func (s *SeleniumController) IsVisible(ctx context.Context, target entities.Target) (bool, error) {
	element, err := s.findElement(target)
	if err != nil || element == nil {
		return false, nil
	}
	return element.IsDisplayed()
}

// Click - clicks on the element once it is visible
func (s *SeleniumController) Click(ctx context.Context, target entities.Target) error {
	if err := s.WaitVisible(ctx, target); err != nil {
		return err
	}
	element, err := s.findElement(target)
	if err != nil || element == nil {
		return fmt.Errorf("element not found: %s", target)
	}

	if _, err := s.wd.ExecuteScript(`arguments[0].scrollIntoView({block: 'center'}); return true;`, []interface{}{element}); err != nil {
		s.logger.Warnf("Failed to scroll to element: %v", err)
	}

	return element.Click()
}

// Fill - clears the field then types the text
func (s *SeleniumController) Fill(ctx context.Context, target entities.Target, text string) error {
	if err := s.WaitVisible(ctx, target); err != nil {
		return fmt.Errorf("input field not found: %w", err)
	}
	element, err := s.findElement(target)
	if err != nil || element == nil {
		return fmt.Errorf("element not found: %s", target)
	}

	if err := element.Clear(); err != nil {
		s.logger.Warnf("Failed to clear element: %v", err)
	}
	if err := element.SendKeys(text); err != nil {
		return fmt.Errorf("failed to type text: %w", err)
	}
	return nil
}

func (s *SeleniumController) WaitForURL(ctx context.Context, pattern string) error {
	var last string
	err := poll(ctx, s.opts.timeout(), func() (bool, error) {
		url, err := s.wd.CurrentURL()
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

// CurrentURL - returns current page URL
func (s *SeleniumController) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

func (s *SeleniumController) InnerText(ctx context.Context, target entities.Target) (string, error) {
	if err := s.WaitVisible(ctx, target); err != nil {
		return "", err
	}
	element, err := s.findElement(target)
	if err != nil || element == nil {
		return "", fmt.Errorf("element not found: %s", target)
	}
	text, err := element.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Screenshot - writes the WebDriver PNG to path
func (s *SeleniumController) Screenshot(ctx context.Context, path string) error {
	data, err := s.wd.Screenshot()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var closeErr error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil && !isClosedErr(err) {
			closeErr = fmt.Errorf("failed to quit webdriver: %w", err)
		}
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil && closeErr == nil {
			closeErr = fmt.Errorf("failed to stop chromedriver: %w", err)
		}
		s.service = nil
	}
	return closeErr
}

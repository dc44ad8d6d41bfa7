package verifier

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"request_verifier/domain/entities"
	"request_verifier/domain/scoring"
)

// fakeBrowser simulates the New Request form: options picked through the
// test-id triggers feed the score preview the same way the real page does.
type fakeBrowser struct {
	mu sync.Mutex

	baseURL string
	url     string
	open    string

	selections map[string]string
	missing    map[string]bool
	hidden     map[string]bool

	scoreOverride string
	screenshotErr error

	calls       []string
	screenshots []string
}

func newFakeBrowser(baseURL string) *fakeBrowser {
	return &fakeBrowser{
		baseURL:    baseURL,
		selections: map[string]string{},
		missing:    map[string]bool{},
		hidden:     map[string]bool{},
	}
}

func (f *fakeBrowser) record(format string, args ...interface{}) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeBrowser) Name() string { return "fake" }

func (f *fakeBrowser) Navigate(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("navigate %s", url)
	f.url = url
	return nil
}

func (f *fakeBrowser) WaitVisible(ctx context.Context, target entities.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wait %s", target)
	if f.missing[target.String()] {
		return fmt.Errorf("element %s not found or not visible: timeout 30s exceeded", target)
	}
	return nil
}

func (f *fakeBrowser) IsVisible(ctx context.Context, target entities.Target) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("visible %s", target)
	key := target.String()
	return !f.missing[key] && !f.hidden[key], nil
}

func (f *fakeBrowser) Click(ctx context.Context, target entities.Target) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("click %s", target)
	if f.missing[target.String()] {
		return fmt.Errorf("element %s not found or not visible: timeout 30s exceeded", target)
	}

	switch {
	case strings.Contains(target.CSS, "-trigger"):
		f.open = target.CSS
	case target.CSS == "div[role='option']":
		if f.open == "" {
			return errors.New("no dropdown open")
		}
		f.selections[f.open] = target.HasText
		f.open = ""
	case target.HasText == "New Request":
		f.url = strings.TrimRight(f.baseURL, "/") + "/new"
	}
	return nil
}

func (f *fakeBrowser) Fill(ctx context.Context, target entities.Target, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("fill %s=%s", target, text)
	return nil
}

func (f *fakeBrowser) WaitForURL(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("wait url %s", pattern)
	if !strings.HasSuffix(f.url, strings.TrimPrefix(pattern, "**")) {
		return fmt.Errorf("url %s never matched %s", f.url, pattern)
	}
	return nil
}

func (f *fakeBrowser) CurrentURL(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url, nil
}

func (f *fakeBrowser) InnerText(ctx context.Context, target entities.Target) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("text %s", target)
	if f.scoreOverride != "" {
		return f.scoreOverride, nil
	}

	impact := f.selectedInt("button[data-testid='impact-trigger']", 3)
	urgency := f.selectedInt("button[data-testid='urgency-trigger']", 3)
	effort := scoring.EffortM
	if label, ok := f.selections["button[data-testid='effort-trigger']"]; ok {
		effort = scoring.EffortSize(strings.Fields(label)[0])
	}
	return scoring.Expected(impact, urgency, effort)
}

func (f *fakeBrowser) selectedInt(trigger string, fallback int) int {
	label, ok := f.selections[trigger]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.Fields(label)[0])
	if err != nil {
		return fallback
	}
	return n
}

func (f *fakeBrowser) Screenshot(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("screenshot %s", path)
	if f.screenshotErr != nil {
		return f.screenshotErr
	}
	f.screenshots = append(f.screenshots, path)
	return os.WriteFile(path, []byte("\x89PNG"), 0644)
}

func (f *fakeBrowser) Close() error { return nil }

type recordingReporter struct {
	progress []string
	failures []string
	summary  *entities.RunReport
}

func (r *recordingReporter) Progress(message string) { r.progress = append(r.progress, message) }
func (r *recordingReporter) Failure(message string)  { r.failures = append(r.failures, message) }
func (r *recordingReporter) Summary(report *entities.RunReport) {
	r.summary = report
}

package cli

import (
	"context"
	"os"
	"testing"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"
	"request_verifier/infrastructure/browser"

	"github.com/sirupsen/logrus"
)

// stubBrowser renders every element and shows a fixed score
type stubBrowser struct {
	score  string
	url    string
	closed bool
}

func (s *stubBrowser) Name() string { return "stub" }

func (s *stubBrowser) Navigate(ctx context.Context, url string) error {
	s.url = url
	return nil
}

func (s *stubBrowser) WaitVisible(ctx context.Context, target entities.Target) error { return nil }

func (s *stubBrowser) IsVisible(ctx context.Context, target entities.Target) (bool, error) {
	return true, nil
}

func (s *stubBrowser) Click(ctx context.Context, target entities.Target) error {
	if target.HasText == "New Request" {
		s.url = "http://localhost:3000/new"
	}
	return nil
}

func (s *stubBrowser) Fill(ctx context.Context, target entities.Target, text string) error {
	return nil
}

func (s *stubBrowser) WaitForURL(ctx context.Context, pattern string) error { return nil }

func (s *stubBrowser) CurrentURL(ctx context.Context) (string, error) { return s.url, nil }

func (s *stubBrowser) InnerText(ctx context.Context, target entities.Target) (string, error) {
	return s.score, nil
}

func (s *stubBrowser) Screenshot(ctx context.Context, path string) error {
	return os.WriteFile(path, []byte("png"), 0644)
}

func (s *stubBrowser) Close() error {
	s.closed = true
	return nil
}

func launchStub(stub *stubBrowser) BrowserFactory {
	return func(driver string, opts browser.Options, logger *logrus.Logger) (interfaces.BrowserController, error) {
		return stub, nil
	}
}

// chdir - Go 1.21 stand-in for testing.T.Chdir (Go 1.24+): switches the
// working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

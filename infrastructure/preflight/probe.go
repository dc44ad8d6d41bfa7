package preflight

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"request_verifier/domain/entities"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 4 << 20

// Probe checks over plain HTTP that the application is up before a browser is launched
type Probe struct {
	client *http.Client
	logger *logrus.Logger
}

func NewProbe(timeout time.Duration, logger *logrus.Logger) *Probe {
	return &Probe{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Check - GETs baseURL and requires a 2xx HTML page containing the title target
func (p *Probe) Check(ctx context.Context, baseURL string, title entities.Target) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("application not reachable at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	p.logger.WithFields(logrus.Fields{
		"url":     baseURL,
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("Preflight response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("application at %s returned %d: %s", baseURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to parse html: %w", err)
	}

	if !containsTarget(doc, title) {
		return fmt.Errorf("application at %s does not render %s", baseURL, title)
	}
	return nil
}

// containsTarget - true when an element matches the CSS and contains the text
func containsTarget(doc *goquery.Document, target entities.Target) bool {
	sel := doc.Find(target.CSS)
	if target.HasText == "" {
		return sel.Length() > 0
	}
	matched := sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), target.HasText)
	})
	return matched.Length() > 0
}

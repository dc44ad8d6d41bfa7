package entities

import "fmt"

// Target locates an element: the first match of CSS whose text contains HasText
type Target struct {
	CSS     string `json:"css" yaml:"css"`
	HasText string `json:"has_text,omitempty" yaml:"has_text,omitempty"`
}

// CSS - target matching a plain CSS selector
func CSS(selector string) Target {
	return Target{CSS: selector}
}

// WithText - target matching a CSS selector filtered by contained text
func WithText(selector, text string) Target {
	return Target{CSS: selector, HasText: text}
}

func (t Target) IsZero() bool {
	return t.CSS == "" && t.HasText == ""
}

// String renders the target in Playwright selector syntax for logs.
func (t Target) String() string {
	if t.HasText == "" {
		return t.CSS
	}
	return fmt.Sprintf("%s:has-text(%q)", t.CSS, t.HasText)
}

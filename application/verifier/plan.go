package verifier

import (
	"fmt"
	"strings"
	"time"

	"request_verifier/domain/entities"
)

// DefaultSettleDelay gives the form time to recompute the score preview.
const DefaultSettleDelay = time.Second

// BuildPlan - compiles a scenario into the ordered steps of one verification pass
func BuildPlan(baseURL string, s entities.Scenario, settle time.Duration) ([]entities.Action, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	expected, err := s.Expected()
	if err != nil {
		return nil, err
	}
	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	var plan []entities.Action
	add := func(a entities.Action) {
		plan = append(plan, a)
	}

	add(entities.Action{
		Type:        entities.ActionNavigate,
		URL:         joinURL(baseURL, s.Home.Path),
		Description: "open home page",
		Announce:    []string{"Navigating to home page..."},
	})
	add(entities.Action{
		Type:        entities.ActionWaitVisible,
		Target:      s.Home.Title,
		Description: "wait for application title",
	})
	for _, nav := range s.Home.Navigation {
		add(entities.Action{
			Type:        entities.ActionAssertVisible,
			Target:      nav,
			Description: "navigation entry " + label(nav),
		})
	}
	add(entities.Action{
		Type:        entities.ActionScreenshot,
		Path:        s.Screenshots.Home,
		Description: "capture home page",
		Announce:    []string{"Home page verified."},
	})

	add(entities.Action{
		Type:        entities.ActionClick,
		Target:      s.Home.FormLink,
		Description: "follow " + label(s.Home.FormLink),
		Announce:    []string{"Navigating to New Request page..."},
	})
	add(entities.Action{
		Type:        entities.ActionWaitURL,
		URL:         s.Form.URLPattern,
		Description: "wait for form url",
	})
	for i, heading := range s.Form.Headings {
		typ := entities.ActionAssertVisible
		if i == 0 {
			typ = entities.ActionWaitVisible
		}
		add(entities.Action{
			Type:        typ,
			Target:      heading,
			Description: "form section " + label(heading),
		})
	}

	for i, field := range s.Form.Fields {
		a := entities.Action{
			Type:        entities.ActionFill,
			Target:      field.Target,
			Text:        field.Value,
			Description: "fill " + field.Target.CSS,
		}
		if i == 0 {
			a.Announce = []string{"New Request page verified.", "Filling form..."}
		}
		add(a)
	}

	impact, urgency, effort := s.Selection.Labels()
	for _, sel := range []struct {
		name     string
		dropdown entities.Dropdown
		option   string
	}{
		{"Impact", s.Form.Dropdowns.Impact, impact},
		{"Urgency", s.Form.Dropdowns.Urgency, urgency},
		{"Effort", s.Form.Dropdowns.Effort, effort},
	} {
		add(entities.Action{
			Type:        entities.ActionSelect,
			Target:      sel.dropdown.Trigger,
			Listbox:     sel.dropdown.Listbox,
			Option:      entities.WithText(sel.dropdown.Option.CSS, sel.option),
			Description: fmt.Sprintf("select %s %q", strings.ToLower(sel.name), sel.option),
			Announce:    []string{fmt.Sprintf("Selecting %s...", sel.name)},
		})
	}

	add(entities.Action{
		Type:        entities.ActionSettle,
		Delay:       settle,
		Description: "wait for score preview",
		Announce:    []string{"Verifying calculation..."},
	})
	add(entities.Action{
		Type:        entities.ActionAssertScore,
		Target:      s.Form.Score,
		Text:        expected,
		Path:        s.Screenshots.ScoreMismatch,
		Description: "score equals " + expected,
	})
	add(entities.Action{
		Type:        entities.ActionScreenshot,
		Path:        s.Screenshots.Filled,
		Description: "capture filled form",
	})

	return plan, nil
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func label(t entities.Target) string {
	if t.HasText != "" {
		return fmt.Sprintf("%q", t.HasText)
	}
	return t.CSS
}

package entities

import (
	"errors"
	"fmt"
	"strconv"

	"request_verifier/domain/scoring"
)

// Scenario describes one pass over the New Request form
type Scenario struct {
	Name      string    `yaml:"name" json:"name"`
	Home      HomePage  `yaml:"home" json:"home"`
	Form      FormPage  `yaml:"form" json:"form"`
	Selection Selection `yaml:"selection" json:"selection"`
	// ExpectedScore pins the score literally instead of deriving it from Selection.
	ExpectedScore string      `yaml:"expected_score,omitempty" json:"expected_score,omitempty"`
	Screenshots   Screenshots `yaml:"screenshots" json:"screenshots"`
}

type HomePage struct {
	Path       string   `yaml:"path" json:"path"`
	Title      Target   `yaml:"title" json:"title"`
	Navigation []Target `yaml:"navigation" json:"navigation"`
	FormLink   Target   `yaml:"form_link" json:"form_link"`
}

type FormPage struct {
	URLPattern string    `yaml:"url_pattern" json:"url_pattern"`
	Headings   []Target  `yaml:"headings" json:"headings"`
	Fields     []Field   `yaml:"fields" json:"fields"`
	Dropdowns  Dropdowns `yaml:"dropdowns" json:"dropdowns"`
	Score      Target    `yaml:"score" json:"score"`
}

// Field is a text input filled by its selector
type Field struct {
	Target Target `yaml:"target" json:"target"`
	Value  string `yaml:"value" json:"value"`
}

// Dropdown is a trigger that opens a listbox of options
type Dropdown struct {
	Trigger Target `yaml:"trigger" json:"trigger"`
	Listbox Target `yaml:"listbox" json:"listbox"`
	Option  Target `yaml:"option" json:"option"`
}

type Dropdowns struct {
	Impact  Dropdown `yaml:"impact" json:"impact"`
	Urgency Dropdown `yaml:"urgency" json:"urgency"`
	Effort  Dropdown `yaml:"effort" json:"effort"`
}

// Selection holds the values picked in the three dropdowns.
// Labels default to the option text the form renders for each value.
type Selection struct {
	Impact       int                `yaml:"impact" json:"impact"`
	Urgency      int                `yaml:"urgency" json:"urgency"`
	Effort       scoring.EffortSize `yaml:"effort" json:"effort"`
	ImpactLabel  string             `yaml:"impact_label,omitempty" json:"impact_label,omitempty"`
	UrgencyLabel string             `yaml:"urgency_label,omitempty" json:"urgency_label,omitempty"`
	EffortLabel  string             `yaml:"effort_label,omitempty" json:"effort_label,omitempty"`
}

type Screenshots struct {
	Home          string `yaml:"home" json:"home"`
	Filled        string `yaml:"filled" json:"filled"`
	ScoreMismatch string `yaml:"score_mismatch" json:"score_mismatch"`
}

// CardTitle matches the title element of a form card, whether the UI kit
// renders it as h3 or as a data-slot div.
const CardTitle = "h3, [data-slot='card-title'], div.font-semibold.leading-none"

// DefaultScenario - the New Request check: impact 5, urgency 4, effort S, score 20
func DefaultScenario() Scenario {
	listbox := CSS("div[role='presentation']")
	option := CSS("div[role='option']")

	return Scenario{
		Name: "new-request-scoring",
		Home: HomePage{
			Path:  "/",
			Title: WithText("h1", "Voda.NextJS"),
			Navigation: []Target{
				WithText("nav a", "Dashboard"),
			},
			FormLink: WithText("nav a", "New Request"),
		},
		Form: FormPage{
			URLPattern: "**/new",
			Headings: []Target{
				WithText(CardTitle, "Project Details"),
				WithText(CardTitle, "Scoring"),
				WithText(CardTitle, "Score Preview"),
			},
			Fields: []Field{
				{Target: CSS("input[name='title']"), Value: "Test Project"},
				{Target: CSS("textarea[name='business_value']"), Value: "High value for verification"},
			},
			Dropdowns: Dropdowns{
				Impact:  Dropdown{Trigger: CSS("button[data-testid='impact-trigger']"), Listbox: listbox, Option: option},
				Urgency: Dropdown{Trigger: CSS("button[data-testid='urgency-trigger']"), Listbox: listbox, Option: option},
				Effort:  Dropdown{Trigger: CSS("button[data-testid='effort-trigger']"), Listbox: listbox, Option: option},
			},
			Score: CSS("span.text-4xl"),
		},
		Selection: Selection{
			Impact:  5,
			Urgency: 4,
			Effort:  scoring.EffortS,
		},
		Screenshots: Screenshots{
			Home:          "home_page.png",
			Filled:        "new_request_filled.png",
			ScoreMismatch: "error_calculation.png",
		},
	}
}

// Labels - returns the option texts to click for impact, urgency and effort
func (s Selection) Labels() (impact, urgency, effort string) {
	impact, urgency, effort = s.ImpactLabel, s.UrgencyLabel, s.EffortLabel
	if impact == "" {
		impact = strconv.Itoa(s.Impact)
	}
	if urgency == "" {
		urgency = strconv.Itoa(s.Urgency)
	}
	if effort == "" {
		effort = s.Effort.Label()
	}
	return impact, urgency, effort
}

// Expected - returns the score the preview must show
func (s Scenario) Expected() (string, error) {
	if s.ExpectedScore != "" {
		return s.ExpectedScore, nil
	}
	return scoring.Expected(s.Selection.Impact, s.Selection.Urgency, s.Selection.Effort)
}

// Validate - checks the scenario is complete enough to compile into a plan
func (s Scenario) Validate() error {
	var errs []error

	if _, err := scoring.Calculate(s.Selection.Impact, s.Selection.Urgency, s.Selection.Effort); err != nil {
		errs = append(errs, fmt.Errorf("selection: %w", err))
	}
	if s.Home.Title.IsZero() {
		errs = append(errs, errors.New("home.title is required"))
	}
	if s.Home.FormLink.IsZero() {
		errs = append(errs, errors.New("home.form_link is required"))
	}
	if s.Form.URLPattern == "" {
		errs = append(errs, errors.New("form.url_pattern is required"))
	}
	if s.Form.Score.IsZero() {
		errs = append(errs, errors.New("form.score is required"))
	}
	for name, d := range map[string]Dropdown{
		"impact":  s.Form.Dropdowns.Impact,
		"urgency": s.Form.Dropdowns.Urgency,
		"effort":  s.Form.Dropdowns.Effort,
	} {
		if d.Trigger.IsZero() || d.Option.IsZero() {
			errs = append(errs, fmt.Errorf("form.dropdowns.%s needs trigger and option", name))
		}
	}
	for i, f := range s.Form.Fields {
		if f.Target.IsZero() {
			errs = append(errs, fmt.Errorf("form.fields[%d].target is required", i))
		}
	}
	if s.Screenshots.Home == "" || s.Screenshots.Filled == "" || s.Screenshots.ScoreMismatch == "" {
		errs = append(errs, errors.New("screenshots.home, screenshots.filled and screenshots.score_mismatch are required"))
	}

	return errors.Join(errs...)
}

package entities

import "time"

// ActionType represents the type of step the verifier can perform
type ActionType string

const (
	ActionNavigate      ActionType = "navigate"
	ActionWaitVisible   ActionType = "wait_visible"
	ActionAssertVisible ActionType = "assert_visible"
	ActionScreenshot    ActionType = "screenshot"
	ActionClick         ActionType = "click"
	ActionWaitURL       ActionType = "wait_url"
	ActionFill          ActionType = "fill"
	ActionSelect        ActionType = "select"
	ActionSettle        ActionType = "settle"
	ActionAssertScore   ActionType = "assert_score"
)

// Action represents a single step of a verification plan
type Action struct {
	Type   ActionType `json:"type"`
	Target Target     `json:"target,omitempty"`
	// Listbox and Option are only used by select: Target is the trigger.
	Listbox     Target        `json:"listbox,omitempty"`
	Option      Target        `json:"option,omitempty"`
	Text        string        `json:"text,omitempty"`
	URL         string        `json:"url,omitempty"`
	Path        string        `json:"path,omitempty"`
	Delay       time.Duration `json:"delay,omitempty"`
	Description string        `json:"description"`
	// Announce lines are printed as progress before the step runs.
	Announce []string `json:"announce,omitempty"`
}

// ActionResult represents the result of an action
type ActionResult struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	Data     string        `json:"data,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

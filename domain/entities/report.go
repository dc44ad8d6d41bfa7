package entities

import "time"

// RunStatus represents the outcome of a verification run
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

// StepResult records one executed action
type StepResult struct {
	Index  int          `json:"index"`
	Action Action       `json:"action"`
	Result ActionResult `json:"result"`
}

// RunReport is written after every run, pass or fail
type RunReport struct {
	RunID         string       `json:"run_id"`
	Scenario      string       `json:"scenario"`
	BaseURL       string       `json:"base_url"`
	Driver        string       `json:"driver"`
	Status        RunStatus    `json:"status"`
	FailureKind   FailureKind  `json:"failure_kind,omitempty"`
	Error         string       `json:"error,omitempty"`
	ExpectedScore string       `json:"expected_score"`
	ActualScore   string       `json:"actual_score,omitempty"`
	Screenshots   []string     `json:"screenshots,omitempty"`
	Steps         []StepResult `json:"steps"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
}

func (r *RunReport) Passed() bool {
	return r.Status == RunStatusPassed
}

package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"
)

// TerminalInterface prints run progress the way an operator watches it
type TerminalInterface struct {
	out io.Writer
}

func NewTerminalInterface(out io.Writer) *TerminalInterface {
	if out == nil {
		out = os.Stdout
	}
	return &TerminalInterface{out: out}
}

func (t *TerminalInterface) Progress(message string) {
	fmt.Fprintln(t.out, message)
}

func (t *TerminalInterface) Failure(message string) {
	fmt.Fprintln(t.out, message)
}

// Summary - final lines of a run; score mismatches were already reported
func (t *TerminalInterface) Summary(report *entities.RunReport) {
	switch {
	case report.Passed():
		fmt.Fprintln(t.out, "Calculation verified.")
	case report.FailureKind == entities.FailureScoreMismatch:
		// expected/actual line already printed
	default:
		fmt.Fprintf(t.out, "An error occurred: %s\n", report.Error)
	}
}

// Describe - prints a stored report for the report command
func (t *TerminalInterface) Describe(report *entities.RunReport) {
	fmt.Fprintf(t.out, "Run:        %s\n", report.RunID)
	fmt.Fprintf(t.out, "Scenario:   %s\n", report.Scenario)
	fmt.Fprintf(t.out, "Target:     %s (%s)\n", report.BaseURL, report.Driver)
	fmt.Fprintf(t.out, "Status:     %s\n", strings.ToUpper(string(report.Status)))
	if report.FailureKind != "" {
		fmt.Fprintf(t.out, "Failure:    %s: %s\n", report.FailureKind, report.Error)
	}
	fmt.Fprintf(t.out, "Score:      expected %s, got %s\n", report.ExpectedScore, valueOr(report.ActualScore, "-"))
	fmt.Fprintf(t.out, "Duration:   %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	fmt.Fprintf(t.out, "Steps:      %d\n", len(report.Steps))
	for _, path := range report.Screenshots {
		fmt.Fprintf(t.out, "Screenshot: %s\n", path)
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Ensure TerminalInterface implements Reporter interface
var _ interfaces.Reporter = (*TerminalInterface)(nil)

package verifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RunInfo describes the run for the report
type RunInfo struct {
	Scenario      string
	BaseURL       string
	ExpectedScore string
}

type Verifier struct {
	browser  interfaces.BrowserController
	guard    interfaces.ActionGuard
	store    interfaces.ArtifactStore
	reporter interfaces.Reporter
	logger   *logrus.Logger
	now      func() time.Time
}

// NewVerifier - creates new verifier instance
func NewVerifier(
	browser interfaces.BrowserController,
	guard interfaces.ActionGuard,
	store interfaces.ArtifactStore,
	reporter interfaces.Reporter,
	logger *logrus.Logger,
) *Verifier {
	return &Verifier{
		browser:  browser,
		guard:    guard,
		store:    store,
		reporter: reporter,
		logger:   logger,
		now:      time.Now,
	}
}

// Run - executes the plan once, in order, stopping at the first failure.
// The report is always returned and saved; err is non-nil when the run failed.
func (v *Verifier) Run(ctx context.Context, info RunInfo, plan []entities.Action) (*entities.RunReport, error) {
	report := &entities.RunReport{
		RunID:         uuid.NewString(),
		Scenario:      info.Scenario,
		BaseURL:       info.BaseURL,
		Driver:        v.browser.Name(),
		Status:        entities.RunStatusRunning,
		ExpectedScore: info.ExpectedScore,
		Steps:         make([]entities.StepResult, 0, len(plan)),
		StartedAt:     v.now(),
	}
	log := v.logger.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"driver": report.Driver,
	})
	log.WithField("steps", len(plan)).Info("Verification started")

	err := v.guard.CheckPlan(ctx, plan)
	if err != nil {
		err = fmt.Errorf("%w: %w", entities.ErrUnsafePlan, err)
	} else {
		err = v.runSteps(ctx, log, plan, report)
	}

	report.FinishedAt = v.now()
	if err != nil {
		report.Status = entities.RunStatusFailed
		report.FailureKind = entities.KindOf(err)
		report.Error = err.Error()
		log.WithFields(logrus.Fields{
			"kind":  report.FailureKind,
			"error": err,
		}).Error("Verification failed")
	} else {
		report.Status = entities.RunStatusPassed
		log.WithField("score", report.ActualScore).Info("Verification passed")
	}

	if saveErr := v.store.SaveReport(report); saveErr != nil {
		log.WithError(saveErr).Warn("Failed to save run report")
	}
	v.reporter.Summary(report)

	return report, err
}

func (v *Verifier) runSteps(ctx context.Context, log *logrus.Entry, plan []entities.Action, report *entities.RunReport) error {
	for i, action := range plan {
		step := i + 1
		for _, line := range action.Announce {
			v.reporter.Progress(line)
		}

		stepLog := log.WithFields(logrus.Fields{
			"step":   step,
			"action": action.Type,
		})
		stepLog.Debug(action.Description)

		start := v.now()
		data, err := v.execute(ctx, action, report)
		result := entities.ActionResult{
			Success:  err == nil,
			Message:  action.Description,
			Data:     data,
			Duration: v.now().Sub(start),
		}
		if err != nil {
			result.Error = err.Error()
		}
		report.Steps = append(report.Steps, entities.StepResult{Index: step, Action: action, Result: result})

		if err != nil {
			stepErr := &entities.StepError{Step: step, Action: action, Kind: entities.KindOf(err), Err: err}
			if stepErr.Kind != entities.FailureScoreMismatch && ctx.Err() == nil {
				v.captureDiagnostic(ctx, stepLog, step, action, report)
			}
			return stepErr
		}
	}
	return nil
}

// execute - runs a single action, returning data worth recording
func (v *Verifier) execute(ctx context.Context, action entities.Action, report *entities.RunReport) (string, error) {
	switch action.Type {
	case entities.ActionNavigate:
		return action.URL, v.browser.Navigate(ctx, action.URL)

	case entities.ActionWaitVisible:
		return "", v.browser.WaitVisible(ctx, action.Target)

	case entities.ActionAssertVisible:
		visible, err := v.browser.IsVisible(ctx, action.Target)
		if err != nil {
			return "", err
		}
		if !visible {
			return "", fmt.Errorf("%s: %w", action.Target, entities.ErrNotVisible)
		}
		return "", nil

	case entities.ActionScreenshot:
		path := v.store.Path(action.Path)
		if err := v.browser.Screenshot(ctx, path); err != nil {
			return "", fmt.Errorf("failed to save screenshot %s: %w", path, err)
		}
		report.Screenshots = append(report.Screenshots, path)
		return path, nil

	case entities.ActionClick:
		return "", v.browser.Click(ctx, action.Target)

	case entities.ActionWaitURL:
		if err := v.browser.WaitForURL(ctx, action.URL); err != nil {
			return "", err
		}
		return v.browser.CurrentURL(ctx)

	case entities.ActionFill:
		return "", v.browser.Fill(ctx, action.Target, action.Text)

	case entities.ActionSelect:
		return action.Option.HasText, v.selectOption(ctx, action)

	case entities.ActionSettle:
		return "", sleep(ctx, action.Delay)

	case entities.ActionAssertScore:
		return v.assertScore(ctx, action, report)

	default:
		return "", fmt.Errorf("unknown action: %s", action.Type)
	}
}

// selectOption - opens the dropdown, waits for its listbox and picks the option
func (v *Verifier) selectOption(ctx context.Context, action entities.Action) error {
	if err := v.browser.Click(ctx, action.Target); err != nil {
		return fmt.Errorf("failed to open dropdown: %w", err)
	}
	if !action.Listbox.IsZero() {
		if err := v.browser.WaitVisible(ctx, action.Listbox); err != nil {
			return fmt.Errorf("dropdown did not open: %w", err)
		}
	}
	if err := v.browser.Click(ctx, action.Option); err != nil {
		return fmt.Errorf("failed to choose option: %w", err)
	}
	return nil
}

func (v *Verifier) assertScore(ctx context.Context, action entities.Action, report *entities.RunReport) (string, error) {
	score, err := v.browser.InnerText(ctx, action.Target)
	if err != nil {
		return "", fmt.Errorf("failed to read score: %w", err)
	}
	report.ActualScore = score
	v.reporter.Progress("Calculated Score: " + score)

	if score == action.Text {
		return score, nil
	}

	v.reporter.Failure(fmt.Sprintf("Error: Expected %s, got %s", action.Text, score))
	if action.Path != "" {
		path := v.store.Path(action.Path)
		if err := v.browser.Screenshot(ctx, path); err != nil {
			v.logger.WithError(err).Warn("Failed to capture score mismatch screenshot")
		} else {
			report.Screenshots = append(report.Screenshots, path)
		}
	}
	return score, &entities.ScoreMismatchError{Expected: action.Text, Actual: score}
}

// captureDiagnostic - best effort screenshot of the page a step failed on
func (v *Verifier) captureDiagnostic(ctx context.Context, log *logrus.Entry, step int, action entities.Action, report *entities.RunReport) {
	path := v.store.Path(fmt.Sprintf("error_step%02d_%s.png", step, strings.ReplaceAll(string(action.Type), " ", "_")))
	if err := v.browser.Screenshot(ctx, path); err != nil {
		log.WithError(err).Warn("Failed to capture diagnostic screenshot")
		return
	}
	report.Screenshots = append(report.Screenshots, path)
	v.reporter.Failure("Diagnostic screenshot saved to " + path)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

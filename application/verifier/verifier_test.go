package verifier

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"
	"request_verifier/infrastructure/security"
	"request_verifier/infrastructure/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const baseURL = "http://localhost:3000"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	browser  *fakeBrowser
	reporter *recordingReporter
	store    interfaces.ArtifactStore
	verifier *Verifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := storage.NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	h := &harness{
		browser:  newFakeBrowser(baseURL),
		reporter: &recordingReporter{},
		store:    store,
	}
	h.verifier = NewVerifier(h.browser, security.NewSecurityLayer(logger), store, h.reporter, logger)
	return h
}

func (h *harness) run(t *testing.T, ctx context.Context, s entities.Scenario, settle time.Duration) (*entities.RunReport, error) {
	t.Helper()
	plan, err := BuildPlan(baseURL, s, settle)
	require.NoError(t, err)
	expected, err := s.Expected()
	require.NoError(t, err)
	return h.verifier.Run(ctx, RunInfo{Scenario: s.Name, BaseURL: baseURL, ExpectedScore: expected}, plan)
}

func TestRunPasses(t *testing.T) {
	h := newHarness(t)

	report, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.NoError(t, err)

	assert.True(t, report.Passed())
	assert.Equal(t, "20", report.ExpectedScore)
	assert.Equal(t, "20", report.ActualScore)
	assert.Equal(t, "fake", report.Driver)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, report.FailureKind)
	assert.Equal(t, []string{
		h.store.Path("home_page.png"),
		h.store.Path("new_request_filled.png"),
	}, report.Screenshots)
	for _, path := range report.Screenshots {
		assert.FileExists(t, path)
	}

	assert.Equal(t, []string{
		"Navigating to home page...",
		"Home page verified.",
		"Navigating to New Request page...",
		"New Request page verified.",
		"Filling form...",
		"Selecting Impact...",
		"Selecting Urgency...",
		"Selecting Effort...",
		"Verifying calculation...",
		"Calculated Score: 20",
	}, h.reporter.progress)
	assert.Empty(t, h.reporter.failures)
	assert.Same(t, report, h.reporter.summary)

	saved, err := h.store.LoadReport()
	require.NoError(t, err)
	assert.Equal(t, report.RunID, saved.RunID)
	assert.Len(t, saved.Steps, len(report.Steps))
}

func TestRunDropdownsFeedScore(t *testing.T) {
	h := newHarness(t)

	s := entities.DefaultScenario()
	s.Selection.Impact = 5
	s.Selection.Urgency = 4
	s.Selection.Effort = "M"

	report, err := h.run(t, context.Background(), s, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "6.67", report.ActualScore)
	assert.Contains(t, h.browser.calls, `click div[role='option']:has-text("M (3)")`)
}

func TestRunScoreMismatch(t *testing.T) {
	h := newHarness(t)
	h.browser.scoreOverride = "6.67"

	report, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.Error(t, err)
	assert.Equal(t, entities.FailureScoreMismatch, entities.KindOf(err))

	var mismatch *entities.ScoreMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "20", mismatch.Expected)
	assert.Equal(t, "6.67", mismatch.Actual)

	assert.Equal(t, entities.RunStatusFailed, report.Status)
	assert.Equal(t, entities.FailureScoreMismatch, report.FailureKind)
	assert.Equal(t, "6.67", report.ActualScore)

	mismatchShot := h.store.Path("error_calculation.png")
	assert.FileExists(t, mismatchShot)
	assert.Equal(t, []string{h.store.Path("home_page.png"), mismatchShot}, report.Screenshots)
	assert.NoFileExists(t, h.store.Path("new_request_filled.png"))
	assert.Equal(t, []string{"Error: Expected 20, got 6.67"}, h.reporter.failures)
}

func TestRunMissingTriggerCapturesDiagnostic(t *testing.T) {
	h := newHarness(t)
	h.browser.missing["button[data-testid='impact-trigger']"] = true

	report, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.Error(t, err)
	assert.NotEqual(t, entities.FailureScoreMismatch, entities.KindOf(err))

	var stepErr *entities.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, 12, stepErr.Step)
	assert.Equal(t, entities.ActionSelect, stepErr.Action.Type)
	assert.Equal(t, entities.FailureNavigation, report.FailureKind)

	diagnostic := h.store.Path("error_step12_select.png")
	assert.FileExists(t, diagnostic)
	assert.Contains(t, report.Screenshots, diagnostic)
	assert.Len(t, report.Steps, 12)
	assert.False(t, report.Steps[11].Result.Success)
}

func TestRunHiddenNavigationIsAssertionFailure(t *testing.T) {
	h := newHarness(t)
	h.browser.hidden[`nav a:has-text("Dashboard")`] = true

	report, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrNotVisible)
	assert.Equal(t, entities.FailureAssertion, report.FailureKind)
	assert.NotContains(t, h.reporter.progress, "Home page verified.")
}

func TestRunRejectsDestructivePlan(t *testing.T) {
	h := newHarness(t)

	plan, err := BuildPlan(baseURL, entities.DefaultScenario(), time.Millisecond)
	require.NoError(t, err)
	plan = append(plan, entities.Action{
		Type:        entities.ActionClick,
		Target:      entities.CSS("button[type='submit']"),
		Description: "submit request",
	})

	report, err := h.verifier.Run(context.Background(), RunInfo{BaseURL: baseURL, ExpectedScore: "20"}, plan)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUnsafePlan)
	assert.Equal(t, "unsafe plan: step 18 (click button[type='submit']) is destructive; verification runs must not submit or delete data", err.Error())
	assert.Equal(t, entities.FailureAssertion, report.FailureKind)
	assert.Empty(t, h.browser.calls)
	assert.Equal(t, entities.RunStatusFailed, report.Status)
}

func TestRunIsIdempotent(t *testing.T) {
	h := newHarness(t)

	first, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.NoError(t, err)
	second, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, first.ActualScore, second.ActualScore)
	assert.Equal(t, first.Screenshots, second.Screenshots)
	assert.NotEqual(t, first.RunID, second.RunID)

	entries, err := os.ReadDir(h.store.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"home_page.png", "new_request_filled.png", "report.json"}, names)

	saved, err := h.store.LoadReport()
	require.NoError(t, err)
	assert.Equal(t, second.RunID, saved.RunID)
}

func TestRunCancelledDuringSettle(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	report, err := h.run(t, ctx, entities.DefaultScenario(), time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, entities.RunStatusFailed, report.Status)

	matches, err := filepath.Glob(filepath.Join(h.store.Dir(), "error_*.png"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRunScreenshotFailureStopsRun(t *testing.T) {
	h := newHarness(t)
	h.browser.screenshotErr = errors.New("disk full")

	report, err := h.run(t, context.Background(), entities.DefaultScenario(), time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, entities.FailureNavigation, report.FailureKind)
	assert.Empty(t, report.Screenshots)
}

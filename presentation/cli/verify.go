package cli

import (
	"fmt"

	"request_verifier/application/verifier"
	"request_verifier/infrastructure/browser"
	"request_verifier/infrastructure/config"
	"request_verifier/infrastructure/logging"
	"request_verifier/infrastructure/preflight"
	"request_verifier/infrastructure/scenario"
	"request_verifier/infrastructure/security"
	"request_verifier/infrastructure/storage"
	"request_verifier/presentation/terminal"

	"github.com/spf13/cobra"
)

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	term := terminal.NewTerminalInterface(cmd.OutOrStdout())

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := scenario.Load(cfg.Scenario)
	if err != nil {
		return err
	}
	expected, err := s.Expected()
	if err != nil {
		return err
	}
	plan, err := verifier.BuildPlan(cfg.BaseURL, s, cfg.SettleDelay)
	if err != nil {
		return err
	}

	// Errors past this point are about the application under test, not the invocation.
	fail := func(err error) error {
		logger.WithError(err).Error("Verification aborted")
		term.Failure(fmt.Sprintf("An error occurred: %v", err))
		return ErrVerificationFailed
	}

	if cfg.Preflight {
		if err := preflight.NewProbe(cfg.Timeout, logger).Check(ctx, cfg.BaseURL, s.Home.Title); err != nil {
			return fail(err)
		}
	}

	store, err := storage.NewArtifactStore(cfg.ScreenshotDir)
	if err != nil {
		return err
	}

	b, err := a.newBrowser(cfg.Driver, browser.Options{
		Headless: cfg.Headless,
		SlowMo:   cfg.SlowMo,
		Timeout:  cfg.Timeout,
		Install:  cfg.Install,
	}, logger)
	if err != nil {
		return fail(fmt.Errorf("failed to launch %s: %w", cfg.Driver, err))
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close browser")
		}
	}()

	v := verifier.NewVerifier(b, security.NewSecurityLayer(logger), store, term, logger)
	report, err := v.Run(ctx, verifier.RunInfo{
		Scenario:      s.Name,
		BaseURL:       cfg.BaseURL,
		ExpectedScore: expected,
	}, plan)
	if err != nil {
		return ErrVerificationFailed
	}

	logger.WithField("report", store.Path("report.json")).Debugf("Run %s stored", report.RunID)
	return nil
}

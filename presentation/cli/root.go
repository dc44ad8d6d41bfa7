package cli

import (
	"context"
	"errors"
	"io"

	"request_verifier/domain/interfaces"
	"request_verifier/infrastructure/browser"
	"request_verifier/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrVerificationFailed marks failures already reported on the terminal.
var ErrVerificationFailed = errors.New("verification failed")

// BrowserFactory launches a browser backend by name
type BrowserFactory func(driver string, opts browser.Options, logger *logrus.Logger) (interfaces.BrowserController, error)

type app struct {
	v          *viper.Viper
	cfgFile    string
	newBrowser BrowserFactory
}

// NewRootCommand - builds the command tree; the root command runs the verification
func NewRootCommand(newBrowser BrowserFactory, out io.Writer) *cobra.Command {
	if newBrowser == nil {
		newBrowser = browser.New
	}
	a := &app{v: viper.New(), newBrowser: newBrowser}

	root := &cobra.Command{
		Use:           "request_verifier",
		Short:         "End-to-end check of the New Request scoring form",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			return config.Init(a.v, a.cfgFile)
		},
		RunE: a.runVerify,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./verify.yaml)")
	flags.String("base-url", config.DefaultBaseURL, "base URL of the application under test")
	flags.String("driver", browser.DriverPlaywright, "browser backend: playwright, selenium or rod")
	flags.Bool("headless", true, "run the browser without a window")
	flags.Duration("slow-mo", 0, "delay between browser operations")
	flags.Duration("timeout", 0, "timeout for each wait (default 30s)")
	flags.Duration("settle-delay", 0, "wait before reading the score (default 1s)")
	flags.String("screenshot-dir", "", "directory for screenshots and report.json (default verification)")
	flags.String("scenario", "", "YAML scenario overriding the built-in one")
	flags.Bool("preflight", true, "check the application over HTTP before launching a browser")
	flags.Bool("install", false, "install the Playwright driver and Chromium before running")
	flags.String("log-level", "", "log level: debug, info, warn, error (default info)")
	flags.String("log-file", "", "also write logs to this file, rotated")

	for key, flag := range map[string]string{
		"base_url":       "base-url",
		"driver":         "driver",
		"headless":       "headless",
		"slow_mo":        "slow-mo",
		"timeout":        "timeout",
		"settle_delay":   "settle-delay",
		"screenshot_dir": "screenshot-dir",
		"scenario":       "scenario",
		"preflight":      "preflight",
		"install":        "install",
		"log_level":      "log-level",
		"log_file":       "log-file",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "verify",
			Short: "Drive the browser through the form and assert the score",
			RunE:  a.runVerify,
		},
		a.scoreCommand(),
		a.scenarioCommand(),
		a.reportCommand(),
	)

	return root
}

// Execute - runs the command tree against ctx
func Execute(ctx context.Context, out io.Writer, args []string) error {
	root := NewRootCommand(nil, out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

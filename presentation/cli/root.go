// Package cli is the command line front end of the harness
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
	"checkout_automation/infrastructure/config"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/metrics"
	"checkout_automation/infrastructure/report"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// flag names
const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagResults   = "results"
	flagData      = "data"
)

// ErrScenariosFailed is returned when at least one scenario did not pass
var ErrScenariosFailed = errors.New("scenarios failed")

// App carries what every command needs once flags are parsed
type App struct {
	out    io.Writer
	logger *logrus.Logger
	props  *config.Properties
}

// NewRootCmd - builds the command tree writing human output to out
func NewRootCmd(out io.Writer) *cobra.Command {
	app := &App{out: out}

	root := &cobra.Command{
		Use:           "checkout-automation",
		Short:         "End-to-end checkout and API checks with Allure reporting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	flags := root.PersistentFlags()
	flags.String(flagConfig, "config.properties", "Properties file with base.url, api.key and friends")
	flags.String(flagLogLevel, "", "Log level (env: LOG_LEVEL)")
	flags.String(flagLogFormat, "text", "Log format: text or json")
	flags.String(flagResults, "", "Allure results directory (property: allure.results)")

	root.AddCommand(app.checkoutCmd())
	root.AddCommand(app.createUserCmd())
	root.AddCommand(app.twinCmd())
	return root
}

// Execute runs the command line with os.Args
func Execute() error {
	return NewRootCmd(os.Stdout).Execute()
}

func (a *App) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Fprintln(a.out, "Warning: .env file not found, using environment variables")
	}

	path, _ := cmd.Flags().GetString(flagConfig)
	props, err := config.Load(path)
	if err != nil {
		return err
	}
	a.props = props

	level, _ := cmd.Flags().GetString(flagLogLevel)
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	format, _ := cmd.Flags().GetString(flagLogFormat)
	a.logger = logging.New(cmd.ErrOrStderr(), level, format)

	if cmd.Flags().Changed(flagResults) {
		dir, _ := cmd.Flags().GetString(flagResults)
		a.props.Set(config.KeyResultsDir, dir)
	}
	return nil
}

// override copies a changed flag into the properties so flags win over
// environment and files
func (a *App) override(cmd *cobra.Command, flag, key string) {
	if !cmd.Flags().Changed(flag) {
		return
	}
	a.props.Set(key, cmd.Flags().Lookup(flag).Value.String())
}

// reporter builds the sink chain: console lines, Allure results and
// metrics around both
func (a *App) reporter(suite string) (interfaces.Reporter, error) {
	sinks := report.Multi{newConsoleReporter(a.out)}

	dir := a.props.GetOr(config.KeyResultsDir, "allure-results")
	allure, err := report.NewAllureWriter(dir, map[string]string{
		"suite":    suite,
		"base.url": a.props.Get(config.KeyBaseURL),
		"browser":  a.props.Get(config.KeyBrowser),
	})
	if err != nil {
		return nil, err
	}
	sinks = append(sinks, allure)
	a.logger.Debugf("Writing Allure results to %s", allure.Dir())

	return metrics.NewReporter(sinks, a.props.Get(config.KeyMetricsFile)), nil
}

// summarize prints the suite outcome and turns failures into an error
func (a *App) summarize(suite entities.SuiteResult) error {
	fmt.Fprintf(a.out, "\n%s: %d scenario(s), %d failed, %s\n",
		suite.Name, len(suite.Scenarios), suite.Failed(), suite.Stop.Sub(suite.Start).Round(time.Millisecond))
	for _, sc := range suite.Scenarios {
		if sc.Passed() {
			continue
		}
		fmt.Fprintf(a.out, "  %s %s at %q: %s\n", sc.Status, sc.Ref.Name, sc.FailedStep, sc.Error)
	}
	if suite.Failed() > 0 {
		return fmt.Errorf("%w: %d of %d", ErrScenariosFailed, suite.Failed(), len(suite.Scenarios))
	}
	return nil
}

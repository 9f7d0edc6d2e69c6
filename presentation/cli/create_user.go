package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"checkout_automation/application/steps"
	"checkout_automation/application/usercreate"
	"checkout_automation/infrastructure/api"
	"checkout_automation/infrastructure/config"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/storage"
	"checkout_automation/infrastructure/twin"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	flagBaseURL = "base-url"
	flagAPIKey  = "api-key"
	flagUseTwin = "twin"
)

func (a *App) createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user through the users API and check the echo",
		RunE:  a.runCreateUser,
	}
	cmd.Flags().String(flagData, "testdata/userData.json", "User payload (property: data.user)")
	cmd.Flags().String(flagBaseURL, "", "API base URL (property: base.url)")
	cmd.Flags().String(flagAPIKey, "", "Value of the x-api-key header (property: api.key)")
	cmd.Flags().Bool(flagUseTwin, false, "Serve the reqres stand-in locally and run against it")
	return cmd
}

func (a *App) runCreateUser(cmd *cobra.Command, _ []string) error {
	a.override(cmd, flagData, config.KeyUserData)
	a.override(cmd, flagBaseURL, config.KeyBaseURL)
	a.override(cmd, flagAPIKey, config.KeyAPIKey)

	record, err := storage.NewTestData("", a.props.GetOr(config.KeyUserData, "testdata/userData.json")).UserRecord()
	if err != nil {
		return err
	}

	apiKey := a.props.GetOr(config.KeyAPIKey, config.DefaultAPIKey)
	baseURL := a.props.GetOr(config.KeyBaseURL, "https://reqres.in")

	useTwin, _ := cmd.Flags().GetBool(flagUseTwin)
	if useTwin {
		url, stop, err := a.startTwin(apiKey)
		if err != nil {
			return err
		}
		defer stop()
		baseURL = url
	}

	client, err := api.NewClient(api.Options{BaseURL: baseURL, APIKey: apiKey})
	if err != nil {
		return err
	}
	reporter, err := a.reporter(usercreate.SuiteName)
	if err != nil {
		return err
	}

	a.logger.WithField("base_url", client.BaseURL()).Info("Starting user creation")

	logs := logging.NewScoped(a.logger)
	suite := steps.StartSuite(usercreate.SuiteName)
	result := usercreate.NewScenario(client, reporter, logs).Run(cmd.Context(), record)
	suite.Scenarios = append(suite.Scenarios, result)
	return a.summarize(steps.FinishSuite(cmd.Context(), reporter, logs, suite))
}

// startTwin serves the stand-in on a free loopback port
func (a *App) startTwin(apiKey string) (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{
		Handler:     twin.New(twin.Options{APIKey: apiKey}, a.logger),
		ReadTimeout: 30 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("Reqres twin stopped")
		}
	}()

	url := "http://" + ln.Addr().String()
	a.logger.WithFields(logrus.Fields{"url": url}).Info("Serving reqres twin")
	return url, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

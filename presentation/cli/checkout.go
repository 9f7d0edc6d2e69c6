package cli

import (
	"fmt"

	"checkout_automation/application/checkout"
	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/browser"
	"checkout_automation/infrastructure/config"
	"checkout_automation/infrastructure/element"
	"checkout_automation/infrastructure/logging"
	"checkout_automation/infrastructure/storage"
	"checkout_automation/infrastructure/wait"
	"checkout_automation/internal/toolshop"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	flagDriver   = "driver"
	flagHeadless = "headless"
	flagPayment  = "payment-method"
)

func (a *App) checkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Run the checkout journey for every data row",
		Long: `Run the checkout journey once per row of the checkout data file. Each row
gets a fresh browser session; a failing row does not stop the others.

--driver memory runs against the built-in toolshop replica without a browser.`,
		RunE: a.runCheckout,
	}
	cmd.Flags().String(flagData, "testdata/checkout.json", "Checkout rows, JSON or YAML (property: data.checkout)")
	cmd.Flags().String(flagDriver, "", "Browser backend: playwright, selenium or memory (property: browser)")
	cmd.Flags().Bool(flagHeadless, false, "Run the browser headless (property: browser.headless)")
	cmd.Flags().String(flagPayment, string(entities.PaymentCashOnDelivery), "Payment method chosen at checkout")
	return cmd
}

func (a *App) runCheckout(cmd *cobra.Command, _ []string) error {
	a.override(cmd, flagData, config.KeyCheckoutData)
	a.override(cmd, flagDriver, config.KeyBrowser)
	a.override(cmd, flagHeadless, config.KeyHeadless)

	method := entities.PaymentMethod(cmd.Flag(flagPayment).Value.String())
	if !method.Valid() {
		return fmt.Errorf("unknown payment method %q", method)
	}

	data := storage.NewTestData(a.props.GetOr(config.KeyCheckoutData, "testdata/checkout.json"), "")
	rows, err := data.ScenarioRows()
	if err != nil {
		return err
	}

	kind, err := browser.ParseKind(a.props.Get(config.KeyBrowser))
	if err != nil {
		return err
	}
	headless := a.props.Bool(config.KeyHeadless, false)
	factory, err := browser.NewFactory(browser.FactoryOptions{
		Kind: kind,
		Selenium: browser.SeleniumOptions{
			DriverPath: a.props.Get(config.KeyChromeDriver),
			Port:       portOr(a.props.Get(config.KeySeleniumPort), browser.DefaultSeleniumPort),
			Headless:   headless,
		},
		Playwright: browser.PlaywrightOptions{Headless: headless},
		Sites:      toolshop.New(toolshop.DefaultOptions()),
	}, logrus.NewEntry(a.logger).WithField("driver", kind))
	if err != nil {
		return err
	}

	reporter, err := a.reporter(checkout.SuiteName)
	if err != nil {
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"rows":   len(rows),
		"driver": kind,
	}).Info("Starting checkout suite")

	scenario := checkout.NewScenario(factory, reporter, logging.NewScoped(a.logger), checkout.Options{
		Waits:         a.waits(),
		ImplicitWait:  a.props.Duration(config.KeyImplicitWait, 0),
		PaymentMethod: method,
	})
	suite := checkout.NewSuite(scenario).Run(cmd.Context(), rows)
	return a.summarize(suite)
}

// waits reads both wait families; zero values fall back to the defaults
func (a *App) waits() element.Options {
	return element.Options{
		Bounded: wait.Options{
			Timeout:  a.props.Duration(config.KeyWaitTimeout, 0),
			Interval: a.props.Duration(config.KeyWaitInterval, 0),
		},
		Fluent: wait.Options{
			Timeout:  a.props.Duration(config.KeyFluentTimeout, 0),
			Interval: a.props.Duration(config.KeyFluentInterval, 0),
		},
	}
}

func portOr(s string, def int) int {
	var port int
	if _, err := fmt.Sscanf(s, "%d", &port); err != nil || port <= 0 {
		return def
	}
	return port
}

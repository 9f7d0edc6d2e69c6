package pages

import (
	"context"
	"fmt"

	"checkout_automation/domain/entities"
)

var (
	proceedFromCartButton    = entities.ByCSS("button[data-test='proceed-1']")
	proceedFromSignInButton  = entities.ByCSS("button[data-test='proceed-2']")
	proceedFromBillingButton = entities.ByCSS("button[data-test='proceed-3']")
	streetField              = entities.ByID("street")
	cityField                = entities.ByID("city")
	stateField               = entities.ByID("state")
	countryField             = entities.ByID("country")
	postalCodeField          = entities.ByID("postal_code")
	paymentMethodSelect      = entities.ByID("payment-method")
	finishButton             = entities.ByCSS("button[data-test='finish']")
	paymentMessage           = entities.ByCSS("div[data-test='payment-success-message']")
	orderMessage             = entities.ByID("order-confirmation")
)

// CheckoutStage is the position of the checkout wizard
type CheckoutStage int

const (
	StageCart CheckoutStage = iota
	StageSignIn
	StageBilling
	StagePayment
	StagePaymentConfirmed
	StageOrderConfirmed
)

func (s CheckoutStage) String() string {
	switch s {
	case StageCart:
		return "cart"
	case StageSignIn:
		return "sign-in"
	case StageBilling:
		return "billing"
	case StagePayment:
		return "payment"
	case StagePaymentConfirmed:
		return "payment-confirmed"
	case StageOrderConfirmed:
		return "order-confirmed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// CheckoutStageError is returned when an action is not valid at the
// current stage. The wizard only moves forward.
type CheckoutStageError struct {
	Action string
	Stage  CheckoutStage
}

func (e *CheckoutStageError) Error() string {
	return fmt.Sprintf("checkout cannot %s at stage %s", e.Action, e.Stage)
}

// CheckoutPage is the checkout wizard
type CheckoutPage struct {
	page
	stage CheckoutStage
}

// Stage returns the current wizard stage
func (c CheckoutPage) Stage() CheckoutStage {
	return c.stage
}

// step runs fn when the wizard is at from and moves it to to
func (c CheckoutPage) step(action string, from, to CheckoutStage, fn func() error) CheckoutPage {
	next := c.do(func() error {
		if c.stage != from {
			return &CheckoutStageError{Action: action, Stage: c.stage}
		}
		return fn()
	})
	if next.err != nil {
		return CheckoutPage{page: next, stage: c.stage}
	}
	c.ui.Logger().Debugf("Checkout %s -> %s", from, to)
	return CheckoutPage{page: next, stage: to}
}

// ProceedFromCart leaves the cart for the sign-in step
func (c CheckoutPage) ProceedFromCart(ctx context.Context) CheckoutPage {
	return c.step("proceed from cart", StageCart, StageSignIn, func() error {
		return c.ui.Click(ctx, proceedFromCartButton)
	})
}

// ProceedFromSignIn leaves the sign-in step for the billing address
func (c CheckoutPage) ProceedFromSignIn(ctx context.Context) CheckoutPage {
	return c.step("proceed from sign-in", StageSignIn, StageBilling, func() error {
		return c.ui.Click(ctx, proceedFromSignInButton)
	})
}

// FillBilling replaces the five billing fields. Fields are cleared
// before typing because the shop pre-fills them.
func (c CheckoutPage) FillBilling(ctx context.Context, addr entities.Address) CheckoutPage {
	return c.step("fill billing", StageBilling, StageBilling, func() error {
		fields := []struct {
			locator entities.Locator
			value   string
		}{
			{streetField, addr.Street},
			{cityField, addr.City},
			{stateField, addr.State},
			{countryField, addr.Country},
			{postalCodeField, addr.PostalCode},
		}
		for _, f := range fields {
			if err := c.ui.Type(ctx, f.locator, f.value); err != nil {
				return err
			}
		}
		return nil
	})
}

// ProceedFromBilling leaves the billing address for the payment step
func (c CheckoutPage) ProceedFromBilling(ctx context.Context) CheckoutPage {
	return c.step("proceed from billing", StageBilling, StagePayment, func() error {
		return c.ui.Click(ctx, proceedFromBillingButton)
	})
}

// ChoosePaymentMethod selects method in the payment dropdown
func (c CheckoutPage) ChoosePaymentMethod(ctx context.Context, method entities.PaymentMethod) CheckoutPage {
	return c.step("choose payment method", StagePayment, StagePayment, func() error {
		if !method.Valid() {
			return fmt.Errorf("unknown payment method %q", method)
		}
		return c.ui.SelectByValue(ctx, paymentMethodSelect, string(method))
	})
}

// Finalize clicks the confirm button. The first call confirms the
// payment, the second places the order.
func (c CheckoutPage) Finalize(ctx context.Context) CheckoutPage {
	click := func() error { return c.ui.Click(ctx, finishButton) }
	if c.stage == StagePaymentConfirmed {
		return c.step("finalize order", StagePaymentConfirmed, StageOrderConfirmed, click)
	}
	return c.step("finalize order", StagePayment, StagePaymentConfirmed, click)
}

// PaymentConfirmationMessage reads the payment confirmation
func (c CheckoutPage) PaymentConfirmationMessage(ctx context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.ui.Text(ctx, paymentMessage)
}

// OrderConfirmationMessage reads the order confirmation
func (c CheckoutPage) OrderConfirmationMessage(ctx context.Context) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.ui.Text(ctx, orderMessage)
}

// Home continues on the navigation bar
func (c CheckoutPage) Home() HomePage {
	return HomePage{c.page}
}

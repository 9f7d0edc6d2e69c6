package pages

import (
	"context"

	"checkout_automation/application/verify"
	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/element"
)

// ProductIndex is the position of the product the journey buys
const ProductIndex = 1

var (
	signInLink   = entities.ByPartialLinkText("Sign in")
	productCards = entities.ByCSS("a[data-test*='product']")
	menuButton   = entities.ByID("menu")
	homeLink     = entities.ByCSS("#navbarSupportedContent > ul > li:nth-child(1) > a")
	cartLink     = entities.ByCSS("a[data-test='nav-cart']")
)

// HomePage is the shop landing page and its navigation bar
type HomePage struct {
	page
}

// NewHomePage - binds the home page to an interactor
func NewHomePage(ui *element.Interactor) HomePage {
	return HomePage{page{ui: ui}}
}

// ClickSignIn opens the login form
func (h HomePage) ClickSignIn(ctx context.Context) LoginPage {
	return LoginPage{h.do(func() error {
		return h.ui.Click(ctx, signInLink)
	})}
}

// ClickProduct opens the product at ProductIndex
func (h HomePage) ClickProduct(ctx context.Context) ProductPage {
	return ProductPage{h.do(func() error {
		matches, err := h.ui.FindAll(ctx, productCards)
		if err != nil {
			return err
		}
		card, err := matches.At(ProductIndex)
		if err != nil {
			return err
		}
		name, err := card.Text()
		if err != nil {
			h.ui.Logger().Warnf("Failed to read name of product #%d: %v", ProductIndex, err)
		}
		h.ui.Logger().Infof("Opening product #%d %q", ProductIndex, name)
		return card.Click()
	})}
}

// AssertMenuDisplayed requires the account menu to be shown
func (h HomePage) AssertMenuDisplayed(ctx context.Context) HomePage {
	return HomePage{h.do(func() error {
		el, err := h.ui.Find(ctx, menuButton)
		if err != nil {
			return err
		}
		shown, err := el.IsDisplayed()
		if err != nil {
			return err
		}
		return verify.True("menu button is displayed", shown)
	})}
}

// ReturnHome clicks the home link. Calling it on the home page is harmless.
func (h HomePage) ReturnHome(ctx context.Context) HomePage {
	return HomePage{h.do(func() error {
		return h.ui.Click(ctx, homeLink)
	})}
}

// ClickCart opens the cart
func (h HomePage) ClickCart(ctx context.Context) CheckoutPage {
	return CheckoutPage{page: h.do(func() error {
		return h.ui.Click(ctx, cartLink)
	}), stage: StageCart}
}

// AssertCartNotDisplayed waits for the cart link to disappear and then
// requires it to be reported as not displayed
func (h HomePage) AssertCartNotDisplayed(ctx context.Context) HomePage {
	return HomePage{h.do(func() error {
		if _, err := h.ui.WaitFor(ctx, cartLink, entities.ConditionInvisible); err != nil {
			return err
		}
		return verify.False("cart link is displayed", h.ui.IsDisplayed(ctx, cartLink))
	})}
}

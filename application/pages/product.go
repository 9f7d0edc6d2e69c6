package pages

import (
	"context"

	"checkout_automation/application/verify"
	"checkout_automation/domain/entities"
)

var (
	addToCartButton = entities.ByID("btn-add-to-cart")
	toast           = entities.ByID("toast-container")
)

// ProductPage is the detail page of one product
type ProductPage struct {
	page
}

// AddToCart clicks the add-to-cart button
func (p ProductPage) AddToCart(ctx context.Context) ProductPage {
	return ProductPage{p.do(func() error {
		return p.ui.Click(ctx, addToCartButton)
	})}
}

// AssertProductAdded requires the success toast to appear quickly
func (p ProductPage) AssertProductAdded(ctx context.Context) ProductPage {
	return ProductPage{p.do(func() error {
		elements, err := p.ui.WaitFluently(ctx, toast, entities.ConditionVisible)
		if err != nil {
			return err
		}
		shown, err := elements[0].IsDisplayed()
		if err != nil {
			return err
		}
		return verify.True("add-to-cart toast is displayed", shown)
	})}
}

// Home continues on the navigation bar
func (p ProductPage) Home() HomePage {
	return HomePage{p.page}
}

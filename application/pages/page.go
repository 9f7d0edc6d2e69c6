// Package pages holds one page object per screen of the shop. Page
// objects are values: an action returns the same page or the next one,
// carrying the first error so that chains stop at the first failure.
package pages

import (
	"checkout_automation/infrastructure/element"
)

type page struct {
	ui  *element.Interactor
	err error
}

// Err returns the first error of the chain that produced this page
func (p page) Err() error {
	return p.err
}

// do runs fn unless the chain already failed
func (p page) do(fn func() error) page {
	if p.err != nil {
		return p
	}
	if err := fn(); err != nil {
		p.err = err
	}
	return p
}

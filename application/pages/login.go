package pages

import (
	"context"

	"checkout_automation/domain/entities"
)

var (
	emailField    = entities.ByID("email")
	passwordField = entities.ByID("password")
	loginSubmit   = entities.ByCSS("input[type='submit']")
)

// LoginPage is the customer login form
type LoginPage struct {
	page
}

// EnterEmail types the email address
func (l LoginPage) EnterEmail(ctx context.Context, email string) LoginPage {
	return LoginPage{l.do(func() error {
		return l.ui.Type(ctx, emailField, email)
	})}
}

// EnterPassword types the password
func (l LoginPage) EnterPassword(ctx context.Context, password string) LoginPage {
	return LoginPage{l.do(func() error {
		return l.ui.Type(ctx, passwordField, password)
	})}
}

// Submit clicks the login button. Whether the shop navigated is for the
// caller to check.
func (l LoginPage) Submit(ctx context.Context) LoginPage {
	return LoginPage{l.do(func() error {
		return l.ui.Click(ctx, loginSubmit)
	})}
}

// Home continues on the navigation bar once the caller knows login is done
func (l LoginPage) Home() HomePage {
	return HomePage{l.page}
}

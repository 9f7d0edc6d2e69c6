// Package toolshop is an in-memory replica of the demo toolshop the
// checkout scenario runs against. It plugs into the memory driver so the
// scenario can run without a browser.
package toolshop

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync"

	"checkout_automation/domain/entities"
	"checkout_automation/infrastructure/browser/memory"
)

//go:embed page.html
var pageHTML string

var pageTemplate = template.Must(template.New("toolshop").Parse(pageHTML))

// Product is an item listed on the home page
type Product struct {
	ID    string
	Name  string
	Price string
}

// Order is a placed order
type Order struct {
	Invoice       string
	Products      []string
	Billing       entities.Address
	PaymentMethod entities.PaymentMethod
}

// Options configures the replica
type Options struct {
	// Email and Password are the accepted credentials. Empty accepts any
	// non-empty pair.
	Email    string
	Password string
	FullName string

	// Account is the stored address used to pre-fill the billing form
	Account entities.Address

	Products       []Product
	PaymentMessage string

	// OrderMessage may contain one %s for the invoice number
	OrderMessage string
}

// DefaultOptions - returns the replica configuration used for offline runs
func DefaultOptions() Options {
	return Options{
		FullName: "Jane Doe",
		Account: entities.Address{
			Street:     "Test street 98",
			City:       "Vienna",
			State:      "Vienna",
			Country:    "Austria",
			PostalCode: "1050",
		},
		Products: []Product{
			{ID: "01", Name: "Combination Pliers", Price: "$14.15"},
			{ID: "02", Name: "Pliers", Price: "$12.01"},
			{ID: "03", Name: "Bolt Cutters", Price: "$48.41"},
			{ID: "04", Name: "Long Nose Pliers", Price: "$14.24"},
		},
		PaymentMessage: "Payment was successful",
		OrderMessage:   "Thanks for your order! Order #%s has been placed.",
	}
}

// Shop is the replica. Placed orders are shared; login, cart and
// checkout progress belong to each browser session.
type Shop struct {
	mu     sync.Mutex
	opts   Options
	orders []Order
}

// tab is one browser session on the shop. The memory driver serializes
// every call into it.
type tab struct {
	shop     *Shop
	loggedIn bool
	cart     []string
	step     string
}

// New - creates a replica; zero fields of opts take DefaultOptions values
func New(opts Options) *Shop {
	def := DefaultOptions()
	if opts.FullName == "" {
		opts.FullName = def.FullName
	}
	if opts.Account == (entities.Address{}) {
		opts.Account = def.Account
	}
	if len(opts.Products) == 0 {
		opts.Products = def.Products
	}
	if opts.PaymentMessage == "" {
		opts.PaymentMessage = def.PaymentMessage
	}
	if opts.OrderMessage == "" {
		opts.OrderMessage = def.OrderMessage
	}
	return &Shop{opts: opts}
}

// OpenSession - starts a signed-out session with an empty cart
func (s *Shop) OpenSession() memory.Site {
	return &tab{shop: s}
}

// NewDriver - opens a memory driver session on the replica
func (s *Shop) NewDriver() *memory.Driver {
	return memory.NewDriver(s.OpenSession())
}

// Orders returns the orders placed so far
func (s *Shop) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Order(nil), s.orders...)
}

type pageData struct {
	View           string
	LoggedIn       bool
	FullName       string
	CartCount      int
	Account        entities.Address
	Products       []Product
	PaymentMethods []entities.PaymentMethod
}

// Load renders the page for rawURL. Login and cart survive reloads.
func (s *tab) Load(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	view := "home"
	switch {
	case strings.HasPrefix(u.Path, "/auth/login"):
		view = "login"
	case strings.HasPrefix(u.Path, "/account"):
		view = "account"
	case strings.HasPrefix(u.Path, "/checkout"):
		view = "checkout"
	}
	s.step = ""
	if view == "checkout" {
		s.step = "cart"
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		View:           view,
		LoggedIn:       s.loggedIn,
		FullName:       s.shop.opts.FullName,
		CartCount:      len(s.cart),
		Account:        s.shop.opts.Account,
		Products:       s.shop.opts.Products,
		PaymentMethods: entities.PaymentMethods,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", view, err)
	}
	return buf.String(), nil
}

// Handle applies a user event the way the shop front end does
func (s *tab) Handle(page *memory.Page, ev memory.Event) error {
	t := ev.Target
	switch ev.Type {
	case memory.EventChange:
		if t.Is("#payment-method") {
			if t.AttrOr("value", "") != "" {
				page.Enable("button[data-test='finish']")
			} else {
				page.Disable("button[data-test='finish']")
			}
		}
		return nil
	case memory.EventInput:
		return nil
	}

	switch {
	case t.Is("a[data-test='nav-home']"), t.Is("a.navbar-brand"):
		s.show(page, "#home-view")
	case t.Is("a[data-test='nav-sign-in']"):
		return s.follow(page, t.AttrOr("href", ""))
	case t.Is("a[data-test='nav-menu']"):
		s.show(page, "#account-view")
	case t.Is("input[data-test='login-submit']"):
		s.login(page)
	case t.Is("a[data-test^='product-']"):
		page.SetText("#product-view h1[data-test='product-name']", t.Find("[data-test='product-name']").Text())
		s.show(page, "#product-view")
	case t.Is("#btn-add-to-cart"):
		s.addToCart(page)
	case t.Is("a[data-test='nav-cart']"):
		s.openCart(page)
	case t.Is("button[data-test='proceed-1']"):
		s.proceedFromCart(page)
	case t.Is("button[data-test='proceed-2']"):
		s.advance(page, "sign-in", "#step-sign-in", "#step-billing", "billing")
	case t.Is("button[data-test='proceed-3']"):
		s.proceedFromBilling(page)
	case t.Is("button[data-test='finish']"):
		s.finish(page)
	}
	return nil
}

// follow loads href relative to the current document
func (s *tab) follow(page *memory.Page, href string) error {
	base, err := url.Parse(page.URL())
	if err != nil {
		return fmt.Errorf("invalid current url %q: %w", page.URL(), err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("invalid link %q: %w", href, err)
	}
	return page.Navigate(base.ResolveReference(ref).String())
}

var views = []string{"#home-view", "#login-view", "#account-view", "#product-view", "#checkout-view"}

func (s *tab) show(page *memory.Page, view string) {
	for _, v := range views {
		page.Hide(v)
	}
	page.Hide("#toast-container")
	page.Show(view)
}

func (s *tab) login(page *memory.Page) {
	email, password := page.Value("#email"), page.Value("#password")
	opts := s.shop.opts
	ok := email != "" && password != ""
	if opts.Email != "" || opts.Password != "" {
		ok = email == opts.Email && password == opts.Password
	}
	if !ok {
		page.Show("div[data-test='login-error']")
		page.Console("severe", "POST /users/login 401 (Unauthorized)")
		return
	}

	s.loggedIn = true
	page.Hide("div[data-test='login-error']")
	page.Hide("#nav-sign-in-item")
	page.Show("#nav-menu-item")
	s.show(page, "#account-view")
}

func (s *tab) addToCart(page *memory.Page) {
	name := strings.TrimSpace(page.Find("#product-view h1[data-test='product-name']").Text())
	s.cart = append(s.cart, name)

	page.SetText("#lblCartCount", fmt.Sprint(len(s.cart)))
	page.Show("#nav-cart-item")
	page.Show("#toast-container")
	page.Console("info", fmt.Sprintf("cart updated: %d item(s)", len(s.cart)))
}

func (s *tab) openCart(page *memory.Page) {
	var rows strings.Builder
	for _, item := range s.cart {
		rows.WriteString(template.HTMLEscapeString(item))
		rows.WriteByte('\n')
	}
	page.SetText("tbody[data-test='cart-items']", rows.String())

	for _, step := range []string{"#step-sign-in", "#step-billing", "#step-payment", "#order-confirmation"} {
		page.Hide(step)
	}
	page.Show("#step-cart")
	s.step = "cart"
	s.show(page, "#checkout-view")
}

func (s *tab) proceedFromCart(page *memory.Page) {
	if !s.loggedIn {
		page.Console("warning", "checkout requires a signed-in customer")
		return
	}
	s.advance(page, "cart", "#step-cart", "#step-sign-in", "sign-in")
}

func (s *tab) proceedFromBilling(page *memory.Page) {
	for _, field := range []string{"#street", "#city", "#state", "#country", "#postal_code"} {
		if strings.TrimSpace(page.Value(field)) == "" {
			page.Console("severe", fmt.Sprintf("billing field %s is required", strings.TrimPrefix(field, "#")))
			return
		}
	}
	s.advance(page, "billing", "#step-billing", "#step-payment", "payment")
}

func (s *tab) advance(page *memory.Page, from, hide, show, to string) {
	if s.step != from {
		return
	}
	page.Hide(hide)
	page.Show(show)
	s.step = to
}

// finish confirms the payment on the first click and places the order
// on the second
func (s *tab) finish(page *memory.Page) {
	switch s.step {
	case "payment":
		page.SetText("div[data-test='payment-success-message']", s.shop.opts.PaymentMessage)
		page.Show("div[data-test='payment-success-message']")
		s.step = "paid"

	case "paid":
		invoice := s.shop.place(Order{
			Products: s.cart,
			Billing: entities.Address{
				Street:     page.Value("#street"),
				City:       page.Value("#city"),
				State:      page.Value("#state"),
				Country:    page.Value("#country"),
				PostalCode: page.Value("#postal_code"),
			},
			PaymentMethod: entities.PaymentMethod(page.Value("#payment-method")),
		})
		s.cart = nil

		message := s.shop.opts.OrderMessage
		if strings.Contains(message, "%s") {
			message = fmt.Sprintf(message, invoice)
		}
		page.Hide("#step-payment")
		page.SetText("#order-confirmation", message)
		page.Show("#order-confirmation")
		page.Hide("#nav-cart-item")
		page.SetText("#lblCartCount", "0")
		page.Console("info", "order placed: "+invoice)
		s.step = "ordered"
	}
}

// place records order under the next invoice number and returns it
func (s *Shop) place(order Order) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.Invoice = fmt.Sprintf("INV-%07d", len(s.orders)+1)
	s.orders = append(s.orders, order)
	return order.Invoice
}

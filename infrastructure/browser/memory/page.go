package memory

import (
	"time"

	"checkout_automation/domain/entities"

	"github.com/PuerkitoBio/goquery"
)

// Page is the view of the current document a Site handler works on.
// Its methods run inside the event dispatch and must not be retained.
type Page struct {
	d *Driver
}

// URL returns the URL of the current document
func (p *Page) URL() string {
	return p.d.url
}

// Find queries the current document
func (p *Page) Find(selector string) *goquery.Selection {
	return p.d.doc.Find(selector)
}

// Show removes the hidden attribute from every match of selector
func (p *Page) Show(selector string) {
	p.Find(selector).RemoveAttr("hidden")
}

// Hide sets the hidden attribute on every match of selector
func (p *Page) Hide(selector string) {
	p.Find(selector).SetAttr("hidden", "")
}

// Enable removes the disabled attribute from every match of selector
func (p *Page) Enable(selector string) {
	p.Find(selector).RemoveAttr("disabled")
}

// Disable sets the disabled attribute on every match of selector
func (p *Page) Disable(selector string) {
	p.Find(selector).SetAttr("disabled", "")
}

// Value returns the current value of the first field matching selector
func (p *Page) Value(selector string) string {
	return p.Find(selector).First().AttrOr("value", "")
}

// SetText replaces the text content of every match of selector
func (p *Page) SetText(selector, text string) {
	p.Find(selector).SetText(text)
}

// Navigate replaces the document with the one served at url. The Site's
// Load runs inside the current dispatch, so it must not take a lock its
// Handle already holds.
func (p *Page) Navigate(url string) error {
	return p.d.load(url)
}

// Console appends an entry to the browser console log
func (p *Page) Console(level, message string) {
	p.d.console = append(p.d.console, entities.ConsoleEntry{
		Time:    time.Now(),
		Level:   level,
		Message: message,
	})
}

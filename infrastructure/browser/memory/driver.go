// Package memory is a browser driver over in-memory HTML documents. Pages
// are parsed with goquery and user events are handed to a Site, which
// mutates the document the way the real application's scripts would.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/PuerkitoBio/goquery"
)

// Site serves documents and reacts to events on them
type Site interface {
	// Load returns the HTML served at url
	Load(url string) (string, error)

	// Handle applies the effect of ev to the page
	Handle(page *Page, ev Event) error
}

// Sessions hands out a Site per browser session, so state such as a
// signed-in user never leaks from one session into the next
type Sessions interface {
	OpenSession() Site
}

// EventType names a user event
type EventType string

const (
	EventClick  EventType = "click"
	EventInput  EventType = "input"
	EventChange EventType = "change"
)

// Event is a user event dispatched to the Site
type Event struct {
	Type   EventType
	Target *goquery.Selection
}

// Driver is an interfaces.Driver backed by goquery documents
type Driver struct {
	mu         sync.Mutex
	site       Site
	url        string
	doc        *goquery.Document
	generation int
	implicit   time.Duration
	console    []entities.ConsoleEntry
	closed     bool
}

// NewDriver - creates an in-memory driver serving site
func NewDriver(site Site) *Driver {
	return &Driver{site: site}
}

// Navigate loads url from the site and replaces the current document
func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return err
	}
	return d.load(url)
}

// load must be called with mu held
func (d *Driver) load(url string) error {
	body, err := d.site.Load(url)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to parse document at %s: %w", url, err)
	}
	d.url = url
	d.doc = doc
	d.generation++
	return nil
}

func (d *Driver) usable(ctx context.Context) error {
	if d.closed {
		return entities.ErrSessionClosed
	}
	return ctx.Err()
}

// FindElement returns the first match of locator
func (d *Driver) FindElement(ctx context.Context, locator entities.Locator) (interfaces.Element, error) {
	elements, err := d.FindElements(ctx, locator)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, locator)
	}
	return elements[0], nil
}

// FindElements returns every match of locator in the current document
func (d *Driver) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return nil, err
	}
	if d.doc == nil {
		return nil, nil
	}

	sel, err := query(d.doc.Selection, locator)
	if err != nil {
		return nil, err
	}

	elements := make([]interfaces.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{d: d, sel: s, generation: d.generation})
	})
	return elements, nil
}

// ExecuteScript understands the one script the harness sends: a script
// click on one element.
func (d *Driver) ExecuteScript(ctx context.Context, script string, args ...interface{}) (interface{}, error) {
	if strings.TrimSpace(script) == "arguments[0].click();" {
		if len(args) != 1 {
			return nil, fmt.Errorf("script click expects one element, got %d arguments", len(args))
		}
		el, ok := args[0].(*element)
		if !ok {
			return nil, fmt.Errorf("script click argument is %T, not an element of this session", args[0])
		}
		return nil, el.dispatchClick(false)
	}
	return nil, fmt.Errorf("unsupported script: %q", script)
}

// Refresh reloads the current URL from the site. Existing handles go stale.
func (d *Driver) Refresh(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return err
	}
	if d.url == "" {
		return fmt.Errorf("failed to refresh: no document loaded")
	}
	return d.load(d.url)
}

// SetImplicitWait records the implicit wait. Documents only change on
// dispatched events, so lookups never need to block.
func (d *Driver) SetImplicitWait(ctx context.Context, wait time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return err
	}
	d.implicit = wait
	return nil
}

// ImplicitWait returns the last implicit wait set on the session
func (d *Driver) ImplicitWait() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.implicit
}

// TakeScreenshot returns a 1x1 PNG; there is nothing to render
func (d *Driver) TakeScreenshot(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return nil, err
	}
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
		0x42, 0x60, 0x82,
	}, nil
}

// PageSource renders the current document
func (d *Driver) PageSource(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return "", err
	}
	if d.doc == nil {
		return "", nil
	}
	html, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("failed to render page source: %w", err)
	}
	return html, nil
}

// ConsoleLogs drains the console entries the site logged
func (d *Driver) ConsoleLogs(ctx context.Context) ([]entities.ConsoleEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return nil, err
	}
	entries := d.console
	d.console = nil
	return entries, nil
}

// GetCurrentURL returns the URL of the current document
func (d *Driver) GetCurrentURL(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.usable(ctx); err != nil {
		return "", err
	}
	return d.url, nil
}

// Close ends the session. Later calls fail with entities.ErrSessionClosed.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.doc = nil
	return nil
}

var _ interfaces.Driver = (*Driver)(nil)

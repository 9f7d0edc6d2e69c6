package memory

import (
	"fmt"
	"strings"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/PuerkitoBio/goquery"
)

type element struct {
	d          *Driver
	sel        *goquery.Selection
	generation int
}

// attached must be called with d.mu held
func (e *element) attached() error {
	if e.d.closed {
		return entities.ErrSessionClosed
	}
	if e.generation != e.d.generation || (!e.sel.Is("html") && e.sel.ParentsFiltered("html").Length() == 0) {
		return entities.ErrStaleElement
	}
	return nil
}

func (e *element) IsDisplayed() (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.attached(); err != nil {
		return false, err
	}
	return displayed(e.sel), nil
}

func (e *element) IsEnabled() (bool, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.attached(); err != nil {
		return false, err
	}
	return enabled(e.sel), nil
}

// Text returns the rendered text; hidden elements render none
func (e *element) Text() (string, error) {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.attached(); err != nil {
		return "", err
	}
	if !displayed(e.sel) {
		return "", nil
	}
	return normalizeSpace(e.sel.Text()), nil
}

func (e *element) Click() error {
	return e.dispatchClick(true)
}

// dispatchClick clicks the element. A native click needs a visible
// element; a script click does not.
func (e *element) dispatchClick(native bool) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.attached(); err != nil {
		return err
	}
	if native && !displayed(e.sel) {
		return fmt.Errorf("%w: %s is not displayed", entities.ErrNotInteractable, describe(e.sel))
	}
	if !enabled(e.sel) {
		return nil
	}
	return e.d.dispatch(EventClick, e.sel)
}

func (e *element) Clear() error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.editable(); err != nil {
		return err
	}
	e.sel.SetAttr("value", "")
	return e.d.dispatch(EventInput, e.sel)
}

func (e *element) SendKeys(text string) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.editable(); err != nil {
		return err
	}
	e.sel.SetAttr("value", e.sel.AttrOr("value", "")+text)
	return e.d.dispatch(EventInput, e.sel)
}

// editable must be called with d.mu held
func (e *element) editable() error {
	if err := e.attached(); err != nil {
		return err
	}
	if !e.sel.Is("input, textarea") || !displayed(e.sel) || !enabled(e.sel) {
		return fmt.Errorf("%w: %s does not accept text", entities.ErrNotInteractable, describe(e.sel))
	}
	return nil
}

func (e *element) SelectByValue(value string) error {
	e.d.mu.Lock()
	defer e.d.mu.Unlock()

	if err := e.attached(); err != nil {
		return err
	}
	if !e.sel.Is("select") {
		return fmt.Errorf("%w: %s is not a select", entities.ErrNotInteractable, describe(e.sel))
	}

	options := e.sel.Find("option")
	match := options.FilterFunction(func(_ int, o *goquery.Selection) bool {
		return o.AttrOr("value", "") == value
	})
	if match.Length() == 0 {
		return fmt.Errorf("cannot locate option with value %q: %w", value, entities.ErrNoSuchElement)
	}

	options.RemoveAttr("selected")
	match.First().SetAttr("selected", "selected")
	e.sel.SetAttr("value", value)
	return e.d.dispatch(EventChange, e.sel)
}

// dispatch must be called with d.mu held
func (d *Driver) dispatch(kind EventType, target *goquery.Selection) error {
	return d.site.Handle(&Page{d: d}, Event{Type: kind, Target: target})
}

func displayed(sel *goquery.Selection) bool {
	if sel.Is("input[type='hidden']") {
		return false
	}
	for _, s := range append([]*goquery.Selection{sel}, ancestors(sel)...) {
		if _, hidden := s.Attr("hidden"); hidden {
			return false
		}
		style := strings.ReplaceAll(strings.ToLower(s.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false
		}
	}
	return true
}

func enabled(sel *goquery.Selection) bool {
	_, disabled := sel.Attr("disabled")
	return !disabled
}

func ancestors(sel *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	sel.Parents().Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

func describe(sel *goquery.Selection) string {
	tag := goquery.NodeName(sel)
	if id, ok := sel.Attr("id"); ok {
		return tag + "#" + id
	}
	if dt, ok := sel.Attr("data-test"); ok {
		return fmt.Sprintf("%s[data-test=%s]", tag, dt)
	}
	return tag
}

var _ interfaces.Element = (*element)(nil)

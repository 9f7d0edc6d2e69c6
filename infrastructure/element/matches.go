package element

import (
	"fmt"
	"iter"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
)

// Matches is a snapshot of the elements a locator matched. It can be
// walked once; it does not follow later changes of the page.
type Matches struct {
	locator  entities.Locator
	elements []interfaces.Element
	next     int
}

func newMatches(locator entities.Locator, elements []interfaces.Element) *Matches {
	return &Matches{locator: locator, elements: elements}
}

// Len returns the number of elements not yet consumed
func (m *Matches) Len() int {
	return len(m.elements) - m.next
}

// Next returns the next element
func (m *Matches) Next() (interfaces.Element, bool) {
	if m.next >= len(m.elements) {
		return nil, false
	}
	el := m.elements[m.next]
	m.next++
	return el, true
}

// All yields the remaining elements with their position in the snapshot
func (m *Matches) All() iter.Seq2[int, interfaces.Element] {
	return func(yield func(int, interfaces.Element) bool) {
		for {
			pos := m.next
			el, ok := m.Next()
			if !ok || !yield(pos, el) {
				return
			}
		}
	}
}

// At consumes the snapshot up to index and returns the element there
func (m *Matches) At(index int) (interfaces.Element, error) {
	for pos, el := range m.All() {
		if pos == index {
			return el, nil
		}
	}
	return nil, &entities.ElementNotFoundError{Locator: m.locator, Action: fmt.Sprintf("match #%d", index)}
}

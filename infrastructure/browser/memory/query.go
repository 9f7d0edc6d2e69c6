package memory

import (
	"fmt"
	"strings"

	"checkout_automation/domain/entities"

	"github.com/PuerkitoBio/goquery"
)

// query resolves locator against root. XPath is not available on goquery
// documents.
func query(root *goquery.Selection, locator entities.Locator) (*goquery.Selection, error) {
	switch locator.Strategy {
	case entities.StrategyID:
		return root.Find(attrSelector("id", locator.Selector)), nil
	case entities.StrategyName:
		return root.Find(attrSelector("name", locator.Selector)), nil
	case entities.StrategyCSS:
		return root.Find(locator.Selector), nil
	case entities.StrategyLinkText:
		return root.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return normalizeSpace(s.Text()) == locator.Selector
		}), nil
	case entities.StrategyPartialLinkText:
		return root.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(normalizeSpace(s.Text()), locator.Selector)
		}), nil
	}
	return nil, fmt.Errorf("%w: %s", entities.ErrUnsupportedLocator, locator.Strategy)
}

func attrSelector(attr, value string) string {
	return fmt.Sprintf("[%s='%s']", attr, strings.ReplaceAll(value, "'", `\'`))
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package entities

import "fmt"

// Strategy names how a Locator selector is interpreted by the driver
type Strategy string

const (
	StrategyID              Strategy = "id"
	StrategyCSS             Strategy = "css"
	StrategyXPath           Strategy = "xpath"
	StrategyName            Strategy = "name"
	StrategyLinkText        Strategy = "linkText"
	StrategyPartialLinkText Strategy = "partialLinkText"
)

// Locator describes how to find zero or more elements on the current page.
// It is a plain value: two locators are equal when strategy and selector match.
type Locator struct {
	Strategy Strategy `json:"strategy"`
	Selector string   `json:"selector"`
}

// ByID - locates elements by their id attribute
func ByID(id string) Locator { return Locator{Strategy: StrategyID, Selector: id} }

// ByCSS - locates elements by CSS selector
func ByCSS(selector string) Locator { return Locator{Strategy: StrategyCSS, Selector: selector} }

// ByXPath - locates elements by XPath expression
func ByXPath(expr string) Locator { return Locator{Strategy: StrategyXPath, Selector: expr} }

// ByName - locates elements by their name attribute
func ByName(name string) Locator { return Locator{Strategy: StrategyName, Selector: name} }

// ByLinkText - locates anchors whose visible text equals text
func ByLinkText(text string) Locator { return Locator{Strategy: StrategyLinkText, Selector: text} }

// ByPartialLinkText - locates anchors whose visible text contains text
func ByPartialLinkText(text string) Locator {
	return Locator{Strategy: StrategyPartialLinkText, Selector: text}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}

// IsZero reports whether the locator has no selector
func (l Locator) IsZero() bool {
	return l.Selector == ""
}

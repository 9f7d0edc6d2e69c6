package wait

import (
	"context"
	"errors"
	"fmt"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"
)

// evaluate checks cond once. ok reports whether it holds; a retryable
// error means the document changed under the check.
func evaluate(ctx context.Context, driver interfaces.Driver, locator entities.Locator, cond entities.Condition) ([]interfaces.Element, bool, error) {
	elements, err := driver.FindElements(ctx, locator)
	if err != nil {
		if errors.Is(err, entities.ErrNoSuchElement) {
			elements = nil
		} else {
			return nil, false, err
		}
	}

	switch cond {
	case entities.ConditionAnyPresent:
		if len(elements) == 0 {
			return nil, false, nil
		}
		return elements[:1], true, nil

	case entities.ConditionAllPresent:
		return elements, len(elements) > 0, nil

	case entities.ConditionVisible:
		if len(elements) == 0 {
			return nil, false, nil
		}
		shown, err := elements[0].IsDisplayed()
		if err != nil || !shown {
			return nil, false, err
		}
		return elements[:1], true, nil

	case entities.ConditionClickable:
		if len(elements) == 0 {
			return nil, false, nil
		}
		shown, err := elements[0].IsDisplayed()
		if err != nil || !shown {
			return nil, false, err
		}
		enabled, err := elements[0].IsEnabled()
		if err != nil || !enabled {
			return nil, false, err
		}
		return elements[:1], true, nil

	case entities.ConditionInvisible:
		for _, el := range elements {
			shown, err := el.IsDisplayed()
			if err != nil {
				if entities.IsRetryable(err) || errors.Is(err, entities.ErrNoSuchElement) {
					continue
				}
				return nil, false, err
			}
			if shown {
				return nil, false, nil
			}
		}
		return nil, true, nil
	}

	return nil, false, fmt.Errorf("unknown wait condition %q", cond)
}

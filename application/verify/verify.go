// Package verify holds the assertions used by pages and scenarios. Each
// returns nil or an *entities.AssertionError.
package verify

import (
	"strconv"
	"strings"

	"checkout_automation/domain/entities"
)

// Equal requires actual to match expected exactly
func Equal(subject, expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &entities.AssertionError{Subject: subject, Expected: expected, Actual: actual, Mode: entities.AssertEquals}
}

// Contains requires actual to contain fragment
func Contains(subject, fragment, actual string) error {
	if strings.Contains(actual, fragment) {
		return nil
	}
	return &entities.AssertionError{Subject: subject, Expected: fragment, Actual: actual, Mode: entities.AssertContains}
}

// True requires cond to hold
func True(subject string, cond bool) error {
	if cond {
		return nil
	}
	return &entities.AssertionError{Subject: subject, Expected: "true", Actual: "false", Mode: entities.AssertTrue}
}

// False requires cond not to hold
func False(subject string, cond bool) error {
	if !cond {
		return nil
	}
	return &entities.AssertionError{Subject: subject, Expected: "false", Actual: "true", Mode: entities.AssertFalse}
}

// EqualInt requires two integers to match
func EqualInt(subject string, expected, actual int) error {
	return Equal(subject, strconv.Itoa(expected), strconv.Itoa(actual))
}

// Less requires actual to stay below limit
func Less(subject string, actual, limit int64) error {
	if actual < limit {
		return nil
	}
	return &entities.AssertionError{
		Subject:  subject,
		Expected: "< " + strconv.FormatInt(limit, 10),
		Actual:   strconv.FormatInt(actual, 10),
		Mode:     entities.AssertTrue,
	}
}

package verify

import (
	"testing"

	"checkout_automation/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualIsExact(t *testing.T) {
	assert.NoError(t, Equal("payment message", "Payment was successful", "Payment was successful"))

	err := Equal("payment message", "Payment was successful", "Payment was successful!")
	var ae *entities.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, entities.AssertEquals, ae.Mode)
	assert.Equal(t, "Payment was successful", ae.Expected)
	assert.Equal(t, "Payment was successful!", ae.Actual)
}

func TestContainsIsSubstring(t *testing.T) {
	actual := "Thank you for your order #1234"

	assert.NoError(t, Contains("order message", "Thank you", actual))
	assert.Error(t, Equal("order message", "Thank you", actual))

	err := Contains("order message", "Invoice", actual)
	var ae *entities.AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, entities.AssertContains, ae.Mode)
	assert.Contains(t, err.Error(), `to contain "Invoice"`)
}

func TestBooleanAssertions(t *testing.T) {
	assert.NoError(t, True("menu displayed", true))
	assert.Error(t, True("menu displayed", false))
	assert.NoError(t, False("cart displayed", false))
	assert.Error(t, False("cart displayed", true))
}

func TestNumericAssertions(t *testing.T) {
	assert.NoError(t, EqualInt("status code", 201, 201))
	assert.EqualError(t, EqualInt("status code", 201, 200), "assertion failed: status code: expected [201] but found [200]")

	assert.NoError(t, Less("response time ms", 250, 1000))
	assert.Error(t, Less("response time ms", 1000, 1000))
}

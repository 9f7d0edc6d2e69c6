package wait

import (
	"context"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// mockDriver stubs the lookups the wait layer performs. Other Driver
// methods are left to the embedded nil interface.
type mockDriver struct {
	interfaces.Driver
	mock.Mock
}

func (m *mockDriver) FindElements(ctx context.Context, locator entities.Locator) ([]interfaces.Element, error) {
	args := m.Called(ctx, locator)
	elements, _ := args.Get(0).([]interfaces.Element)
	return elements, args.Error(1)
}

type mockElement struct {
	mock.Mock
}

func (m *mockElement) IsDisplayed() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *mockElement) IsEnabled() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *mockElement) Text() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *mockElement) Click() error                     { return m.Called().Error(0) }
func (m *mockElement) Clear() error                     { return m.Called().Error(0) }
func (m *mockElement) SendKeys(text string) error       { return m.Called(text).Error(0) }
func (m *mockElement) SelectByValue(value string) error { return m.Called(value).Error(0) }

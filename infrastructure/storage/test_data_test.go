package storage

import (
	"os"
	"path/filepath"
	"testing"

	"checkout_automation/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutJSON = `{
  "testData": [
    {
      "url": "https://shop.example/",
      "username": "alice@example.com",
      "password": "secret123",
      "street": "1 Main St",
      "city": "Springfield",
      "state": "IL",
      "country": "USA",
      "postal_code": "62704",
      "expectedMessage": "Payment was successful",
      "invoiceexpectedMessage": "Order #"
    },
    {
      "url": "https://shop.example/",
      "username": "bob@example.com",
      "password": "hunter2",
      "street": "2 Side St",
      "city": "Shelbyville",
      "state": "IL",
      "country": "USA",
      "postal_code": "62565",
      "expectedMessage": "Payment was successful",
      "invoiceexpectedMessage": "Order #"
    }
  ]
}`

const checkoutYAML = `testData:
  - url: https://shop.example/
    username: alice@example.com
    password: secret123
    street: 1 Main St
    city: Springfield
    state: IL
    country: USA
    postal_code: "62704"
    expectedMessage: Payment was successful
    invoiceexpectedMessage: "Order #"
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var alice = entities.ScenarioRow{
	URL:                     "https://shop.example/",
	Username:                "alice@example.com",
	Password:                "secret123",
	Street:                  "1 Main St",
	City:                    "Springfield",
	State:                   "IL",
	Country:                 "USA",
	PostalCode:              "62704",
	ExpectedPaymentMessage:  "Payment was successful",
	ExpectedInvoiceFragment: "Order #",
}

func TestScenarioRowsJSON(t *testing.T) {
	rows, err := NewTestData(write(t, "checkout.json", checkoutJSON), "").ScenarioRows()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, alice, rows[0])
	assert.Equal(t, "bob@example.com", rows[1].Username)
}

func TestScenarioRowsYAML(t *testing.T) {
	rows, err := NewTestData(write(t, "checkout.yaml", checkoutYAML), "").ScenarioRows()
	require.NoError(t, err)
	assert.Equal(t, []entities.ScenarioRow{alice}, rows)
}

func TestScenarioRowsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty list", `{"testData":[]}`},
		{"invalid json", `{"testData":`},
		{"wrong key", `{"rows":[{"url":"x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTestData(write(t, "checkout.json", tt.content), "").ScenarioRows()
			assert.Error(t, err)
		})
	}

	_, err := NewTestData(filepath.Join(t.TempDir(), "missing.json"), "").ScenarioRows()
	assert.Error(t, err)
}

func TestUserRecord(t *testing.T) {
	record, err := NewTestData("", write(t, "userData.json", `{"name":"morpheus","job":"leader"}`)).UserRecord()
	require.NoError(t, err)
	assert.Equal(t, entities.UserRecord{Name: "morpheus", Job: "leader"}, record)

	_, err = NewTestData("", "").UserRecord()
	assert.Error(t, err)
}

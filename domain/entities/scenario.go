package entities

// ScenarioRow is one data record driving a full checkout scenario
type ScenarioRow struct {
	URL                     string `json:"url" yaml:"url"`
	Username                string `json:"username" yaml:"username"`
	Password                string `json:"password" yaml:"password"`
	Street                  string `json:"street" yaml:"street"`
	City                    string `json:"city" yaml:"city"`
	State                   string `json:"state" yaml:"state"`
	Country                 string `json:"country" yaml:"country"`
	PostalCode              string `json:"postal_code" yaml:"postal_code"`
	ExpectedPaymentMessage  string `json:"expectedMessage" yaml:"expectedMessage"`
	ExpectedInvoiceFragment string `json:"invoiceexpectedMessage" yaml:"invoiceexpectedMessage"`
}

// Address returns the billing fields of the row
func (r ScenarioRow) Address() Address {
	return Address{
		Street:     r.Street,
		City:       r.City,
		State:      r.State,
		Country:    r.Country,
		PostalCode: r.PostalCode,
	}
}

// Parameters renders the row for reports. The password is masked.
func (r ScenarioRow) Parameters() []Parameter {
	return []Parameter{
		{Name: "url", Value: r.URL},
		{Name: "username", Value: r.Username},
		{Name: "password", Value: "******", Masked: true},
		{Name: "street", Value: r.Street},
		{Name: "city", Value: r.City},
		{Name: "state", Value: r.State},
		{Name: "country", Value: r.Country},
		{Name: "postal_code", Value: r.PostalCode},
		{Name: "expectedMessage", Value: r.ExpectedPaymentMessage},
		{Name: "invoiceexpectedMessage", Value: r.ExpectedInvoiceFragment},
	}
}

// Address holds the five billing form fields
type Address struct {
	Street     string
	City       string
	State      string
	Country    string
	PostalCode string
}

// Parameter is a named scenario input shown in reports
type Parameter struct {
	Name   string
	Value  string
	Masked bool
}

// UserRecord is the payload of the user-creation API scenario
type UserRecord struct {
	Name string `json:"name" yaml:"name"`
	Job  string `json:"job" yaml:"job"`
}

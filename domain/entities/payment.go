package entities

// PaymentMethod is a value of the checkout payment-method select
type PaymentMethod string

const (
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
	PaymentCreditCard     PaymentMethod = "credit-card"
	PaymentBuyNowPayLater PaymentMethod = "buy-now-pay-later"
	PaymentGiftCard       PaymentMethod = "gift-card"
)

// PaymentMethods lists every method the checkout offers
var PaymentMethods = []PaymentMethod{
	PaymentBankTransfer,
	PaymentCashOnDelivery,
	PaymentCreditCard,
	PaymentBuyNowPayLater,
	PaymentGiftCard,
}

// Valid reports whether m is offered by the checkout
func (m PaymentMethod) Valid() bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

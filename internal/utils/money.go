package utils

import (
	"fmt"
	"math"
)

// VATRate is the flat rate applied to every booking subtotal.
const VATRate = 0.07

// Round2 rounds to 2 decimals, the precision stored for price and vat.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// VATAmount returns the VAT due on a subtotal, rounded to 2 decimals.
func VATAmount(subtotal float64) float64 {
	return Round2(subtotal * VATRate)
}

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatBaht renders an amount with a currency suffix for documents.
func FormatBaht(amount float64) string {
	return fmt.Sprintf("%.2f THB", amount)
}

package payment

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a rupee amount for confirmation mails, e.g. "₹ 1,299.00".
func FormatAmount(amount float64) string {
	return printer.Sprint(currency.Symbol(currency.INR.Amount(amount)))
}

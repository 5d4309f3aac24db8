package email

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentSummary carries the fields rendered into a purchase
// confirmation email.
type PaymentSummary struct {
	Name        string
	TotalAmount decimal.Decimal
	Artworks    []PaymentLine
	Address     string
	Contact     string
}

// PaymentLine is one purchased artwork.
type PaymentLine struct {
	ArtworkID string
	Quantity  int
}

// PaymentConfirmationSubject is the subject line for purchase emails.
const PaymentConfirmationSubject = "Your Art Gallery Purchase Confirmation"

// BuildPaymentConfirmation renders the plain and HTML bodies for a
// purchase confirmation.
func BuildPaymentConfirmation(to string, p PaymentSummary) (plain string, html string) {
	var items strings.Builder
	var itemsPlain strings.Builder
	for _, a := range p.Artworks {
		fmt.Fprintf(&items, "<li>Artwork ID: %s | Quantity: %d</li>", a.ArtworkID, a.Quantity)
		fmt.Fprintf(&itemsPlain, "- Artwork ID: %s | Quantity: %d\n", a.ArtworkID, a.Quantity)
	}

	total := p.TotalAmount.StringFixed(2)

	plain = fmt.Sprintf(
		"Thank you for your purchase!\n\nHello %s,\nYour payment of Rs. %s has been received.\n\nOrder details:\n%s\nShipping to: %s\nWe will contact you shortly at %s or %s.\n\n- Art Gallery Team\n",
		p.Name, total, itemsPlain.String(), p.Address, to, p.Contact,
	)

	html = fmt.Sprintf(
		"<h2>Thank you for your purchase!</h2>"+
			"<p>Hello %s,</p>"+
			"<p>Your payment of Rs. %s has been received.</p>"+
			"<h4>Order Details:</h4>"+
			"<ul>%s</ul>"+
			"<p><strong>Shipping to:</strong> %s</p>"+
			"<p>We will contact you shortly at %s or %s.</p>"+
			"<p>– Art Gallery Team</p>",
		p.Name, total, items.String(), p.Address, to, p.Contact,
	)
	return plain, html
}

package notifications

import (
	"fmt"
	"strings"

	"ordering/internal/core/domain/model/order"
	"ordering/internal/core/ports"
)

// Message kinds sent by the dispatcher.
const (
	KindOrderConfirmation    = "order_confirmation"
	KindPaymentReceived      = "payment_received"
	KindTransferInstructions = "transfer_instructions"
	KindNewOrder             = "new_order"
	KindOrderDelivered       = "order_delivered"
)

// BankAccount is where customers paying by transfer send the money.
type BankAccount struct {
	BankName      string
	AccountNumber string
	AccountHolder string
}

var transferSteps = []string{
	"Open your banking app and choose a transfer to {{bank}}",
	"Send exactly {{amount}} to account {{account}} ({{holder}})",
	"Use {{number}} as the transfer reference",
	"Scan the attached QR code to fill the details automatically",
	"Your order is confirmed once the transfer is matched",
}

// FormatAmount renders minor currency units as a decimal string.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func summary(o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order %s\n", o.Number())
	for _, item := range o.Items() {
		fmt.Fprintf(&b, "  %d x %s @ %s\n", item.Quantity(), item.FoodItemID(), FormatAmount(item.UnitPrice()))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", FormatAmount(o.Subtotal()))
	fmt.Fprintf(&b, "Delivery fee: %s\n", FormatAmount(o.DeliveryFee()))
	if o.Tax() > 0 {
		fmt.Fprintf(&b, "Tax: %s\n", FormatAmount(o.Tax()))
	}
	if o.Discount() > 0 {
		fmt.Fprintf(&b, "Discount: -%s\n", FormatAmount(o.Discount()))
	}
	fmt.Fprintf(&b, "Total: %s\n", FormatAmount(o.TotalAmount()))
	fmt.Fprintf(&b, "Deliver to: %s (%s, %s)\n", o.DeliveryAddress(), o.ContactName(), o.ContactPhone())
	fmt.Fprintf(&b, "Estimated delivery: %s\n", o.EstimatedDeliveryTime().Format("2006-01-02 15:04 MST"))
	return b.String()
}

func orderConfirmation(o *order.Order) ports.Message {
	return ports.Message{
		Kind:        KindOrderConfirmation,
		OrderNumber: o.Number(),
		To:          o.CustomerEmail(),
		Subject:     fmt.Sprintf("Your order %s is confirmed", o.Number()),
		Body: summary(o) + fmt.Sprintf("\nPlease have %s ready in cash when the rider arrives.\n",
			FormatAmount(o.TotalAmount())),
	}
}

func paymentReceived(o *order.Order) ports.Message {
	return ports.Message{
		Kind:        KindPaymentReceived,
		OrderNumber: o.Number(),
		To:          o.CustomerEmail(),
		Subject:     fmt.Sprintf("Payment received for order %s", o.Number()),
		Body:        summary(o) + fmt.Sprintf("\nWe received your %s payment.\n", o.PaymentMethod()),
	}
}

// transferQRPayload is the text encoded in the transfer QR code.
func transferQRPayload(o *order.Order, account BankAccount) string {
	return strings.Join([]string{
		"TRANSFER", account.BankName, account.AccountNumber, FormatAmount(o.TotalAmount()), o.Number(),
	}, "|")
}

func transferInstructions(o *order.Order, account BankAccount) ports.Message {
	replacer := strings.NewReplacer(
		"{{bank}}", account.BankName,
		"{{amount}}", FormatAmount(o.TotalAmount()),
		"{{account}}", account.AccountNumber,
		"{{holder}}", account.AccountHolder,
		"{{number}}", o.Number(),
	)
	var b strings.Builder
	b.WriteString(summary(o))
	b.WriteString("\nHow to pay:\n")
	for i, step := range transferSteps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, replacer.Replace(step))
	}
	return ports.Message{
		Kind:        KindTransferInstructions,
		OrderNumber: o.Number(),
		To:          o.CustomerEmail(),
		Subject:     fmt.Sprintf("Bank transfer instructions for order %s", o.Number()),
		Body:        b.String(),
	}
}

func newOrderAlert(o *order.Order, adminEmail string) ports.Message {
	return ports.Message{
		Kind:        KindNewOrder,
		OrderNumber: o.Number(),
		To:          adminEmail,
		Subject:     fmt.Sprintf("New order %s (%s, %s)", o.Number(), o.PaymentMethod(), o.PaymentStatus()),
		Body:        summary(o) + fmt.Sprintf("\nStatus: %s\nCustomer: %s\n", o.Status(), o.CustomerID()),
	}
}

func orderDelivered(o *order.Order) ports.Message {
	return ports.Message{
		Kind:        KindOrderDelivered,
		OrderNumber: o.Number(),
		To:          o.CustomerEmail(),
		Subject:     fmt.Sprintf("Order %s delivered", o.Number()),
		Body:        fmt.Sprintf("Your order %s was delivered. Enjoy your meal!\n", o.Number()),
	}
}

package notification

import "fmt"

// Message is a customer notification ready to be sent.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Compose turns a drained event into the message for the customer.
type Compose func(Event) Message

const signature = "Thank you for using our services.\n\nKind regards,\nPost Tracking"

// InTransitMessage tells the customer the parcel left with the carrier.
func InTransitMessage(e Event) Message {
	return Message{
		Recipient: e.Data.Email,
		Subject:   "Your order is in transit.",
		Body: fmt.Sprintf(
			"Hello,\n\nYour parcel was shipped by carrier %s with tracking code (%s)!\n%s",
			e.Data.Carrier, e.Data.TrackingCode, signature,
		),
	}
}

// DeliveredMessage tells the customer the parcel arrived.
func DeliveredMessage(e Event) Message {
	return Message{
		Recipient: e.Data.Email,
		Subject:   "Your order has been delivered.",
		Body: fmt.Sprintf(
			"Hello,\n\nYour parcel was delivered by carrier %s!\n%s",
			e.Data.Carrier, signature,
		),
	}
}

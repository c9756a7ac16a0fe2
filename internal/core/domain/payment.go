package domain

import "time"

// PaymentMethod is how a payment or cost was settled.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodCard     PaymentMethod = "card"
)

// PaymentMethods lists the methods in report order.
var PaymentMethods = []PaymentMethod{MethodCash, MethodTransfer, MethodCard}

// Label is the Italian name shown in reports.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodCash:
		return "Contanti"
	case MethodTransfer:
		return "Bonifico"
	case MethodCard:
		return "Carta"
	default:
		return string(m)
	}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard:
		return true
	}
	return false
}

// Payment belongs to a Client. It is reconciled against the client's total
// dues, never against a single enrollment. SlotID only attributes the
// revenue for reporting.
type Payment struct {
	ID          string        `json:"id"`
	ClientID    string        `json:"client_id"`
	Amount      float64       `json:"amount"`
	PaymentDate time.Time     `json:"payment_date"`
	Method      PaymentMethod `json:"method"`
	Description string        `json:"description,omitempty"`
	SlotID      string        `json:"slot_id,omitempty"`
}

package domain

import (
	"strings"
	"time"
)

// QuoteStatus tracks the customer's decision on a quote.
type QuoteStatus string

const (
	QuoteSent     QuoteStatus = "sent"
	QuoteApproved QuoteStatus = "approved"
	QuoteRejected QuoteStatus = "rejected"
)

// Virtual stamp duty applies to documents above StampDutyThreshold.
const (
	StampDutyThreshold = 77.0
	StampDutyAmount    = 2.0
)

// PotentialClient is an ad hoc recipient not registered as a Client.
type PotentialClient struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

func (p PotentialClient) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Quote references either a registered Client or a PotentialClient.
type Quote struct {
	ID              string           `json:"id"`
	ClientID        string           `json:"client_id,omitempty"`
	PotentialClient *PotentialClient `json:"potential_client,omitempty"`
	Description     string           `json:"description"`
	Amount          float64          `json:"amount"`
	Date            time.Time        `json:"date"`
	Status          QuoteStatus      `json:"status"`
}

// QuoteRecipient is the resolved addressee of a quote document.
type QuoteRecipient struct {
	Name       string        `json:"name"`
	Email      string        `json:"email,omitempty"`
	Phone      string        `json:"phone,omitempty"`
	TaxID      string        `json:"tax_id,omitempty"`
	Address    PostalAddress `json:"address"`
	Registered bool          `json:"registered"`
}

// QuoteDocument carries everything a renderer needs, already validated.
type QuoteDocument struct {
	Number    string         `json:"number"`
	Quote     Quote          `json:"quote"`
	Recipient QuoteRecipient `json:"recipient"`
	Company   CompanyProfile `json:"company"`
	Taxable   float64        `json:"taxable"`
	StampDuty float64        `json:"stamp_duty"`
	Total     float64        `json:"total"`
}

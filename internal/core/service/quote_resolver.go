package service

import (
	"fmt"
	"strings"

	"github.com/officina/workshop-system/internal/core/domain"
)

// ResolveQuote assembles a validated quote document: recipient resolved,
// issuer present, stamp duty applied.
func ResolveQuote(quoteID string, snap *domain.Snapshot) (domain.QuoteDocument, error) {
	q, ok := snap.Quote(quoteID)
	if !ok {
		return domain.QuoteDocument{}, domain.ErrQuoteNotFound
	}
	if q.Amount <= 0 {
		return domain.QuoteDocument{}, domain.ErrInvalidAmount
	}

	recipient, err := quoteRecipient(q, snap)
	if err != nil {
		return domain.QuoteDocument{}, err
	}

	company, ok := snap.Company()
	if !ok || company.CompanyName == "" {
		return domain.QuoteDocument{}, domain.ErrCompanyProfileMissing
	}

	doc := domain.QuoteDocument{
		Number:    quoteNumber(q),
		Quote:     q,
		Recipient: recipient,
		Company:   company,
		Taxable:   domain.RoundCents(q.Amount),
	}
	if q.Amount > domain.StampDutyThreshold {
		doc.StampDuty = domain.StampDutyAmount
	}
	doc.Total = domain.RoundCents(doc.Taxable + doc.StampDuty)
	return doc, nil
}

// quoteRecipient prefers the registered client and falls back to the ad
// hoc record only when the quote references no client at all.
func quoteRecipient(q domain.Quote, snap *domain.Snapshot) (domain.QuoteRecipient, error) {
	if q.ClientID != "" {
		c, ok := snap.Client(q.ClientID)
		if !ok {
			return domain.QuoteRecipient{}, fmt.Errorf("%w: client %s", domain.ErrQuoteRecipientMissing, q.ClientID)
		}
		r := domain.QuoteRecipient{
			Name:       c.DisplayName(),
			Email:      c.Email,
			Phone:      c.Phone,
			Address:    c.Address,
			Registered: true,
		}
		switch id := c.Identity.(type) {
		case domain.Individual:
			r.TaxID = id.TaxCode
		case domain.Organization:
			r.TaxID = id.VATNumber
		}
		return r, nil
	}
	if q.PotentialClient != nil && q.PotentialClient.DisplayName() != "" {
		return domain.QuoteRecipient{
			Name:  q.PotentialClient.DisplayName(),
			Email: q.PotentialClient.Email,
			Phone: q.PotentialClient.Phone,
		}, nil
	}
	return domain.QuoteRecipient{}, domain.ErrQuoteRecipientMissing
}

func quoteNumber(q domain.Quote) string {
	short := strings.ToUpper(q.ID)
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("PRV-%d-%s", q.Date.Year(), short)
}

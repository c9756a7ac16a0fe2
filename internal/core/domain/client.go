package domain

import (
	"strings"
	"time"
)

// ClientStatus is the lifecycle state of a client.
type ClientStatus string

const (
	ClientActive     ClientStatus = "active"
	ClientSuspended  ClientStatus = "suspended"
	ClientProspect   ClientStatus = "prospect"
	ClientTerminated ClientStatus = "terminated"
)

// Valid reports whether s is a known status.
func (s ClientStatus) Valid() bool {
	switch s {
	case ClientActive, ClientSuspended, ClientProspect, ClientTerminated:
		return true
	}
	return false
}

// ClientKind discriminates the two client identities.
type ClientKind string

const (
	KindIndividual   ClientKind = "individual"
	KindOrganization ClientKind = "organization"
)

// Identity is the variant part of a Client. It is implemented only by
// Individual and Organization.
type Identity interface {
	Kind() ClientKind
	DisplayName() string
	// SortKey is the value client listings order by (surname or company name).
	SortKey() string
	isIdentity()
}

// Individual is a private person, identified by tax code.
type Individual struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	TaxCode string `json:"tax_code,omitempty"`
}

func (Individual) Kind() ClientKind { return KindIndividual }
func (Individual) isIdentity()      {}

func (i Individual) DisplayName() string {
	return strings.TrimSpace(i.Name + " " + i.Surname)
}

func (i Individual) SortKey() string {
	return strings.ToLower(strings.TrimSpace(i.Surname + " " + i.Name))
}

// Organization is a company or association, identified by VAT number.
type Organization struct {
	CompanyName string `json:"company_name"`
	VATNumber   string `json:"vat_number,omitempty"`
}

func (Organization) Kind() ClientKind { return KindOrganization }
func (Organization) isIdentity()      {}

func (o Organization) DisplayName() string { return o.CompanyName }

func (o Organization) SortKey() string { return strings.ToLower(o.CompanyName) }

// PostalAddress is shared by clients and suppliers.
type PostalAddress struct {
	Street   string `json:"street,omitempty"`
	ZipCode  string `json:"zip_code,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
}

// Client is the paying party. Dependents are enrolled on its behalf.
type Client struct {
	ID        string
	Identity  Identity
	Email     string
	Phone     string
	Address   PostalAddress
	Status    ClientStatus
	Rating    int // 1-5, 0 when unrated
	CreatedAt time.Time
}

// DisplayName falls back to the id when the identity is missing.
func (c Client) DisplayName() string {
	if c.Identity == nil {
		return "ID: " + c.ID
	}
	if name := c.Identity.DisplayName(); name != "" {
		return name
	}
	return "ID: " + c.ID
}

// Kind returns the identity discriminator, empty when no identity is set.
func (c Client) Kind() ClientKind {
	if c.Identity == nil {
		return ""
	}
	return c.Identity.Kind()
}

// SortKey orders clients by surname or company name.
func (c Client) SortKey() string {
	if c.Identity == nil {
		return ""
	}
	return c.Identity.SortKey()
}

package mongo

import (
	"time"

	"github.com/officina/workshop-system/internal/core/domain"
)

// Collection names.
const (
	collClients     = "clients"
	collDependents  = "dependents"
	collVenues      = "venues"
	collSuppliers   = "suppliers"
	collSlots       = "workshop_slots"
	collPlans       = "inscription_plans"
	collEnrollments = "enrollments"
	collPayments    = "payments"
	collCosts       = "operational_costs"
	collQuotes      = "quotes"
	collInvoices    = "invoices"
	collSettings    = "settings"

	companyProfileID = "company_profile"
)

type addressDoc struct {
	Street   string `bson:"street,omitempty"`
	ZipCode  string `bson:"zip_code,omitempty"`
	City     string `bson:"city,omitempty"`
	Province string `bson:"province,omitempty"`
}

func (a addressDoc) toDomain() domain.PostalAddress {
	return domain.PostalAddress{Street: a.Street, ZipCode: a.ZipCode, City: a.City, Province: a.Province}
}

func addressFromDomain(a domain.PostalAddress) addressDoc {
	return addressDoc{Street: a.Street, ZipCode: a.ZipCode, City: a.City, Province: a.Province}
}

// clientDoc stores both identity variants flat, told apart by client_type.
type clientDoc struct {
	ID          string     `bson:"_id"`
	ClientType  string     `bson:"client_type,omitempty"`
	Name        string     `bson:"name,omitempty"`
	Surname     string     `bson:"surname,omitempty"`
	TaxCode     string     `bson:"tax_code,omitempty"`
	CompanyName string     `bson:"company_name,omitempty"`
	VATNumber   string     `bson:"vat_number,omitempty"`
	Email       string     `bson:"email,omitempty"`
	Phone       string     `bson:"phone,omitempty"`
	Address     addressDoc `bson:"address,omitempty"`
	Status      string     `bson:"status,omitempty"`
	Rating      int        `bson:"rating,omitempty"`
	CreatedAt   time.Time  `bson:"created_at,omitempty"`
}

// identity picks the variant from client_type. Untyped legacy records are
// organizations when they carry a company name.
func (d clientDoc) identity() domain.Identity {
	switch {
	case d.ClientType == string(domain.KindOrganization),
		d.ClientType == "" && d.CompanyName != "":
		return domain.Organization{CompanyName: d.CompanyName, VATNumber: d.VATNumber}
	case d.ClientType == string(domain.KindIndividual),
		d.Name != "" || d.Surname != "":
		return domain.Individual{Name: d.Name, Surname: d.Surname, TaxCode: d.TaxCode}
	default:
		return nil
	}
}

func (d clientDoc) toDomain() domain.Client {
	status := domain.ClientStatus(d.Status)
	if !status.Valid() {
		status = domain.ClientActive
	}
	return domain.Client{
		ID:        d.ID,
		Identity:  d.identity(),
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address.toDomain(),
		Status:    status,
		Rating:    d.Rating,
		CreatedAt: d.CreatedAt,
	}
}

func clientFromDomain(c domain.Client) clientDoc {
	d := clientDoc{
		ID:         c.ID,
		ClientType: string(c.Kind()),
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    addressFromDomain(c.Address),
		Status:     string(c.Status),
		Rating:     c.Rating,
		CreatedAt:  c.CreatedAt,
	}
	switch id := c.Identity.(type) {
	case domain.Individual:
		d.Name, d.Surname, d.TaxCode = id.Name, id.Surname, id.TaxCode
	case domain.Organization:
		d.CompanyName, d.VATNumber = id.CompanyName, id.VATNumber
	}
	return d
}

type dependentDoc struct {
	ID        string    `bson:"_id"`
	ParentID  string    `bson:"parent_id"`
	Name      string    `bson:"name"`
	Surname   string    `bson:"surname,omitempty"`
	BirthDate time.Time `bson:"birth_date,omitempty"`
}

func (d dependentDoc) toDomain() domain.Dependent {
	return domain.Dependent{ID: d.ID, ParentID: d.ParentID, Name: d.Name, Surname: d.Surname, BirthDate: d.BirthDate}
}

type supplierDoc struct {
	ID            string     `bson:"_id"`
	Name          string     `bson:"name"`
	VATNumber     string     `bson:"vat_number,omitempty"`
	ContactPerson string     `bson:"contact_person,omitempty"`
	Email         string     `bson:"email,omitempty"`
	Phone         string     `bson:"phone,omitempty"`
	Address       addressDoc `bson:"address,omitempty"`
}

func (d supplierDoc) toDomain() domain.Supplier {
	return domain.Supplier{
		ID:            d.ID,
		Name:          d.Name,
		VATNumber:     d.VATNumber,
		ContactPerson: d.ContactPerson,
		Email:         d.Email,
		Phone:         d.Phone,
		Address:       d.Address.toDomain(),
	}
}

type venueDoc struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Address    string `bson:"address,omitempty"`
	Capacity   int    `bson:"capacity,omitempty"`
	SupplierID string `bson:"supplier_id,omitempty"`
}

func (d venueDoc) toDomain() domain.Venue {
	return domain.Venue{ID: d.ID, Name: d.Name, Address: d.Address, Capacity: d.Capacity, SupplierID: d.SupplierID}
}

type slotDoc struct {
	ID              string `bson:"_id"`
	Code            string `bson:"code,omitempty"`
	Name            string `bson:"name,omitempty"`
	VenueID         string `bson:"venue_id,omitempty"`
	DayOfWeek       int    `bson:"day_of_week"`
	StartTime       string `bson:"start_time,omitempty"`
	EndTime         string `bson:"end_time,omitempty"`
	MaxParticipants int    `bson:"max_participants,omitempty"`
}

func (d slotDoc) toDomain() domain.WorkshopSlot {
	return domain.WorkshopSlot{
		ID:              d.ID,
		Code:            d.Code,
		Name:            d.Name,
		VenueID:         d.VenueID,
		DayOfWeek:       time.Weekday(d.DayOfWeek),
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		MaxParticipants: d.MaxParticipants,
	}
}

type planDoc struct {
	ID                string  `bson:"_id"`
	Name              string  `bson:"name"`
	Price             float64 `bson:"price"`
	DurationMonths    int     `bson:"duration_months,omitempty"`
	NumberOfTimeslots int     `bson:"number_of_timeslots,omitempty"`
}

func (d planDoc) toDomain() domain.InscriptionPlan {
	return domain.InscriptionPlan{ID: d.ID, Name: d.Name, Price: d.Price, DurationMonths: d.DurationMonths, NumberOfTimeslots: d.NumberOfTimeslots}
}

type enrollmentDoc struct {
	ID                string     `bson:"_id"`
	DependentID       string     `bson:"dependent_id"`
	SlotID            string     `bson:"slot_id"`
	PlanID            string     `bson:"plan_id,omitempty"`
	PlanName          string     `bson:"plan_name"`
	PriceAtEnrollment float64    `bson:"price_at_enrollment,omitempty"`
	RegistrationDate  time.Time  `bson:"registration_date"`
	ExpirationDate    *time.Time `bson:"expiration_date,omitempty"`
	Status            string     `bson:"status"`
}

func (d enrollmentDoc) toDomain() domain.Enrollment {
	return domain.Enrollment{
		ID:                d.ID,
		DependentID:       d.DependentID,
		SlotID:            d.SlotID,
		PlanID:            d.PlanID,
		PlanName:          d.PlanName,
		PriceAtEnrollment: d.PriceAtEnrollment,
		RegistrationDate:  d.RegistrationDate,
		ExpirationDate:    d.ExpirationDate,
		Status:            domain.EnrollmentStatus(d.Status),
	}
}

func enrollmentFromDomain(e domain.Enrollment) enrollmentDoc {
	return enrollmentDoc{
		ID:                e.ID,
		DependentID:       e.DependentID,
		SlotID:            e.SlotID,
		PlanID:            e.PlanID,
		PlanName:          e.PlanName,
		PriceAtEnrollment: e.PriceAtEnrollment,
		RegistrationDate:  e.RegistrationDate.UTC(),
		ExpirationDate:    utcPtr(e.ExpirationDate),
		Status:            string(e.Status),
	}
}

type paymentDoc struct {
	ID          string    `bson:"_id"`
	ClientID    string    `bson:"client_id"`
	Amount      float64   `bson:"amount"`
	PaymentDate time.Time `bson:"payment_date"`
	Method      string    `bson:"method"`
	Description string    `bson:"description,omitempty"`
	SlotID      string    `bson:"slot_id,omitempty"`
}

func (d paymentDoc) toDomain() domain.Payment {
	return domain.Payment{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Amount:      d.Amount,
		PaymentDate: d.PaymentDate,
		Method:      domain.PaymentMethod(d.Method),
		Description: d.Description,
		SlotID:      d.SlotID,
	}
}

func paymentFromDomain(p domain.Payment) paymentDoc {
	return paymentDoc{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.UTC(),
		Method:      string(p.Method),
		Description: p.Description,
		SlotID:      p.SlotID,
	}
}

type costDoc struct {
	ID            string    `bson:"_id"`
	Description   string    `bson:"description"`
	Amount        float64   `bson:"amount"`
	Date          time.Time `bson:"date"`
	Category      string    `bson:"category,omitempty"`
	SupplierID    string    `bson:"supplier_id,omitempty"`
	SlotID        string    `bson:"slot_id,omitempty"`
	Method        string    `bson:"method,omitempty"`
	CostType      string    `bson:"cost_type,omitempty"`
	VenueID       string    `bson:"venue_id,omitempty"`
	DistanceKm    float64   `bson:"distance_km,omitempty"`
	FuelCostPerKm float64   `bson:"fuel_cost_per_km,omitempty"`
}

func (d costDoc) toDomain() domain.OperationalCost {
	costType := domain.CostType(d.CostType)
	if costType == "" {
		costType = domain.CostGeneral
	}
	return domain.OperationalCost{
		ID:            d.ID,
		Description:   d.Description,
		Amount:        d.Amount,
		Date:          d.Date,
		Category:      d.Category,
		SupplierID:    d.SupplierID,
		SlotID:        d.SlotID,
		Method:        domain.PaymentMethod(d.Method),
		CostType:      costType,
		VenueID:       d.VenueID,
		DistanceKm:    d.DistanceKm,
		FuelCostPerKm: d.FuelCostPerKm,
	}
}

func costFromDomain(c domain.OperationalCost) costDoc {
	return costDoc{
		ID:            c.ID,
		Description:   c.Description,
		Amount:        c.Amount,
		Date:          c.Date.UTC(),
		Category:      c.Category,
		SupplierID:    c.SupplierID,
		SlotID:        c.SlotID,
		Method:        string(c.Method),
		CostType:      string(c.CostType),
		VenueID:       c.VenueID,
		DistanceKm:    c.DistanceKm,
		FuelCostPerKm: c.FuelCostPerKm,
	}
}

type potentialClientDoc struct {
	FirstName string `bson:"first_name,omitempty"`
	LastName  string `bson:"last_name,omitempty"`
	Email     string `bson:"email,omitempty"`
	Phone     string `bson:"phone,omitempty"`
}

type quoteDoc struct {
	ID              string              `bson:"_id"`
	ClientID        string              `bson:"client_id,omitempty"`
	PotentialClient *potentialClientDoc `bson:"potential_client,omitempty"`
	Description     string              `bson:"description,omitempty"`
	Amount          float64             `bson:"amount"`
	Date            time.Time           `bson:"date"`
	Status          string              `bson:"status"`
}

func (d quoteDoc) toDomain() domain.Quote {
	q := domain.Quote{
		ID:          d.ID,
		ClientID:    d.ClientID,
		Description: d.Description,
		Amount:      d.Amount,
		Date:        d.Date,
		Status:      domain.QuoteStatus(d.Status),
	}
	if p := d.PotentialClient; p != nil {
		q.PotentialClient = &domain.PotentialClient{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone}
	}
	return q
}

type invoiceDoc struct {
	ID            string    `bson:"_id"`
	ClientID      string    `bson:"client_id"`
	InvoiceNumber string    `bson:"invoice_number"`
	SDINumber     string    `bson:"sdi_number,omitempty"`
	IssueDate     time.Time `bson:"issue_date"`
	Amount        float64   `bson:"amount"`
	Status        string    `bson:"status"`
	Method        string    `bson:"method,omitempty"`
}

func (d invoiceDoc) toDomain() domain.Invoice {
	return domain.Invoice{
		ID:            d.ID,
		ClientID:      d.ClientID,
		InvoiceNumber: d.InvoiceNumber,
		SDINumber:     d.SDINumber,
		IssueDate:     d.IssueDate,
		Amount:        d.Amount,
		Status:        domain.InvoiceStatus(d.Status),
		Method:        domain.PaymentMethod(d.Method),
	}
}

type companyDoc struct {
	ID          string `bson:"_id"`
	CompanyName string `bson:"company_name"`
	VATNumber   string `bson:"vat_number,omitempty"`
	Address     string `bson:"address,omitempty"`
	Email       string `bson:"email,omitempty"`
	Phone       string `bson:"phone,omitempty"`
	TaxRegime   string `bson:"tax_regime,omitempty"`
}

func (d companyDoc) toDomain() domain.CompanyProfile {
	return domain.CompanyProfile{
		CompanyName: d.CompanyName,
		VATNumber:   d.VATNumber,
		Address:     d.Address,
		Email:       d.Email,
		Phone:       d.Phone,
		TaxRegime:   d.TaxRegime,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func mapAll[D any, T any](docs []D, conv func(D) T) []T {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		out = append(out, conv(d))
	}
	return out
}

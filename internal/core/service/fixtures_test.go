package service

import (
	"time"

	"github.com/officina/workshop-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// baseCollections has two venues (capacity 2 and 10), two slots, three
// plans and three clients with four dependents. No enrollments or payments.
func baseCollections() domain.Collections {
	return domain.Collections{
		Clients: []domain.Client{
			{ID: "c1", Identity: domain.Individual{Name: "Maria", Surname: "Rossi", TaxCode: "RSSMRA80A41H501U"}, Email: "maria@example.com", Status: domain.ClientActive, Rating: 5},
			{ID: "c2", Identity: domain.Organization{CompanyName: "Scuola Arcobaleno", VATNumber: "01234567890"}, Email: "info@arcobaleno.it", Status: domain.ClientActive, Rating: 3},
			{ID: "c3", Identity: domain.Individual{Name: "Luca", Surname: "Bianchi"}, Email: "luca@example.com", Status: domain.ClientProspect},
		},
		Dependents: []domain.Dependent{
			{ID: "d1", ParentID: "c1", Name: "Giulia", Surname: "Rossi", BirthDate: day(2017, time.March, 2)},
			{ID: "d2", ParentID: "c1", Name: "Marco", Surname: "Rossi", BirthDate: day(2019, time.July, 15)},
			{ID: "d3", ParentID: "c2", Name: "Sara", Surname: "Verdi", BirthDate: day(2018, time.May, 20)},
			{ID: "d4", ParentID: "c3", Name: "Pietro", Surname: "Bianchi", BirthDate: day(2020, time.January, 5)},
		},
		Suppliers: []domain.Supplier{
			{ID: "s1", Name: "Parrocchia San Marco"},
			{ID: "s2", Name: "Cartoleria Colori"},
		},
		Venues: []domain.Venue{
			{ID: "v1", Name: "Sala Grande", Capacity: 2, SupplierID: "s1"},
			{ID: "v2", Name: "Aula Blu", Capacity: 10},
		},
		Slots: []domain.WorkshopSlot{
			{ID: "w1", Code: "LUN-16", Name: "Pittura", VenueID: "v1", DayOfWeek: time.Monday, StartTime: "16:00", EndTime: "17:30", MaxParticipants: 5},
			{ID: "w2", Code: "MER-17", Name: "Robotica", VenueID: "v2", DayOfWeek: time.Wednesday, StartTime: "17:00", EndTime: "18:00", MaxParticipants: 8},
		},
		Plans: []domain.InscriptionPlan{
			{ID: "p1", Name: "Mensile", Price: 60, DurationMonths: 1},
			{ID: "p2", Name: "Trimestrale", Price: 110, DurationMonths: 3},
			{ID: "p3", Name: "Open", Price: 40},
		},
	}
}

func snapshotOf(c domain.Collections) *domain.Snapshot {
	return domain.NewSnapshot(c, 1, day(2024, time.January, 1))
}

func enrollment(id, dep, slot, plan string, status domain.EnrollmentStatus, at time.Time) domain.Enrollment {
	return domain.Enrollment{ID: id, DependentID: dep, SlotID: slot, PlanName: plan, Status: status, RegistrationDate: at}
}

func payment(id, client string, amount float64, method domain.PaymentMethod, at time.Time, slot string) domain.Payment {
	return domain.Payment{ID: id, ClientID: client, Amount: amount, Method: method, PaymentDate: at, SlotID: slot}
}

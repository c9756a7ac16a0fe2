package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/officina/workshop-system/internal/core/domain"
)

func TestClientDoc_Identity(t *testing.T) {
	tests := []struct {
		name string
		doc  clientDoc
		want domain.Identity
	}{
		{
			name: "typed individual",
			doc:  clientDoc{ClientType: "individual", Name: "Maria", Surname: "Rossi", TaxCode: "RSSMRA"},
			want: domain.Individual{Name: "Maria", Surname: "Rossi", TaxCode: "RSSMRA"},
		},
		{
			name: "typed organization",
			doc:  clientDoc{ClientType: "organization", CompanyName: "Arcobaleno", VATNumber: "0123"},
			want: domain.Organization{CompanyName: "Arcobaleno", VATNumber: "0123"},
		},
		{
			name: "untyped with company name",
			doc:  clientDoc{CompanyName: "Arcobaleno"},
			want: domain.Organization{CompanyName: "Arcobaleno"},
		},
		{
			name: "untyped with surname",
			doc:  clientDoc{Surname: "Bianchi"},
			want: domain.Individual{Surname: "Bianchi"},
		},
		{
			name: "nothing to go on",
			doc:  clientDoc{ID: "c9"},
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.doc.identity(); got != tc.want {
				t.Errorf("identity: expected %#v, got %#v", tc.want, got)
			}
		})
	}
}

func TestClientDoc_UnknownStatusDefaultsToActive(t *testing.T) {
	c := clientDoc{ID: "c1", Status: "archived"}.toDomain()
	if c.Status != domain.ClientActive {
		t.Errorf("expected active, got %q", c.Status)
	}
}

func TestClientFromDomain_RoundTripsThroughBSON(t *testing.T) {
	in := domain.Client{
		ID:       "c2",
		Identity: domain.Organization{CompanyName: "Scuola Arcobaleno", VATNumber: "01234567890"},
		Email:    "info@arcobaleno.it",
		Address:  domain.PostalAddress{City: "Torino"},
		Status:   domain.ClientActive,
		Rating:   3,
	}

	raw, err := bson.Marshal(clientFromDomain(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc clientDoc
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.ClientType != "organization" {
		t.Errorf("client_type: expected organization, got %q", doc.ClientType)
	}

	out := doc.toDomain()
	if out.DisplayName() != "Scuola Arcobaleno" || out.Address.City != "Torino" || out.Rating != 3 {
		t.Errorf("unexpected client after round trip: %+v", out)
	}
}

func TestEnrollmentFromDomain_StoresUTC(t *testing.T) {
	rome := time.FixedZone("CET", 3600)
	reg := time.Date(2024, 1, 10, 9, 30, 0, 0, rome)
	exp := reg.AddDate(0, 1, 0)

	doc := enrollmentFromDomain(domain.Enrollment{ID: "e1", RegistrationDate: reg, ExpirationDate: &exp, Status: domain.EnrollmentConfirmed})

	if doc.RegistrationDate.Location() != time.UTC {
		t.Errorf("registration date not in UTC: %v", doc.RegistrationDate)
	}
	if doc.ExpirationDate == nil || !doc.ExpirationDate.Equal(exp) {
		t.Errorf("expiration date: expected %v, got %v", exp, doc.ExpirationDate)
	}
	if enrollmentFromDomain(domain.Enrollment{ID: "e2"}).ExpirationDate != nil {
		t.Error("expected nil expiration date")
	}
}

func TestCostDoc_MissingTypeIsGeneral(t *testing.T) {
	c := costDoc{ID: "k1", Amount: 10}.toDomain()
	if c.CostType != domain.CostGeneral {
		t.Errorf("expected general, got %q", c.CostType)
	}
}

func TestQuoteDoc_PotentialClient(t *testing.T) {
	q := quoteDoc{ID: "q1", PotentialClient: &potentialClientDoc{FirstName: "Anna", LastName: "Verdi"}}.toDomain()
	if q.PotentialClient == nil || q.PotentialClient.DisplayName() != "Anna Verdi" {
		t.Errorf("unexpected potential client: %+v", q.PotentialClient)
	}
	if (quoteDoc{ID: "q2", ClientID: "c1"}).toDomain().PotentialClient != nil {
		t.Error("expected no potential client")
	}
}

func TestCascadeSteps_LeavesFirstAndSkipsEmpty(t *testing.T) {
	steps := cascadeSteps(domain.CascadePlan{
		ClientIDs:     []string{"c1"},
		DependentIDs:  []string{"d1", "d2"},
		EnrollmentIDs: []string{"e1"},
	})

	want := []string{collEnrollments, collDependents, collClients}
	if len(steps) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(steps))
	}
	for i, s := range steps {
		if s.collection != want[i] {
			t.Errorf("step %d: expected %s, got %s", i, want[i], s.collection)
		}
	}

	if got := cascadeSteps(domain.CascadePlan{}); len(got) != 0 {
		t.Errorf("expected no steps for an empty plan, got %d", len(got))
	}
}

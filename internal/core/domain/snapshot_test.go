package domain

import (
	"testing"
	"time"
)

func TestSnapshot_FirstRecordWinsLookups(t *testing.T) {
	snap := NewSnapshot(Collections{
		Clients: []Client{
			{ID: "c1", Email: "first@example.com"},
			{ID: "c1", Email: "second@example.com"},
		},
	}, 1, time.Time{})

	c, ok := snap.Client("c1")
	if !ok || c.Email != "first@example.com" {
		t.Fatalf("Client(c1) = %+v, %v", c, ok)
	}
	if got := len(snap.Clients()); got != 2 {
		t.Errorf("Clients() len = %d, want 2", got)
	}
}

func TestSnapshot_IsolatedFromInput(t *testing.T) {
	in := Collections{Plans: []InscriptionPlan{{ID: "p1", Name: "Mensile", Price: 60}}}
	snap := NewSnapshot(in, 1, time.Time{})

	in.Plans[0].Price = 999
	out := snap.Plans()
	out[0].Price = 1

	p, _ := snap.PlanByName("Mensile")
	if p.Price != 60 {
		t.Errorf("price = %v, want 60", p.Price)
	}
}

func TestSnapshot_WithEnrollmentReplacesOrAppends(t *testing.T) {
	snap := NewSnapshot(Collections{
		Enrollments: []Enrollment{{ID: "e1", SlotID: "w1", DependentID: "d1", Status: EnrollmentConfirmed}},
	}, 3, time.Time{})

	cancelled := snap.WithEnrollment(Enrollment{ID: "e1", SlotID: "w1", DependentID: "d1", Status: EnrollmentCancelled})
	if got := cancelled.ConfirmedCount("w1"); got != 0 {
		t.Errorf("ConfirmedCount after cancel = %d, want 0", got)
	}
	if got := len(cancelled.Enrollments()); got != 1 {
		t.Errorf("enrollments = %d, want 1", got)
	}
	if snap.ConfirmedCount("w1") != 1 {
		t.Error("original snapshot was modified")
	}

	added := snap.WithEnrollment(Enrollment{ID: "e2", SlotID: "w1", DependentID: "d2", Status: EnrollmentConfirmed})
	if got := added.ConfirmedCount("w1"); got != 2 {
		t.Errorf("ConfirmedCount after add = %d, want 2", got)
	}
	if added.Version() != 3 {
		t.Errorf("version = %d, want 3", added.Version())
	}
	if added.Reversion(4).Version() != 4 {
		t.Error("Reversion did not change the version")
	}
}

func TestSnapshot_WithoutKeepsRetainedRecords(t *testing.T) {
	snap := NewSnapshot(Collections{
		Clients:     []Client{{ID: "c1"}, {ID: "c2"}},
		Dependents:  []Dependent{{ID: "d1", ParentID: "c1"}},
		Enrollments: []Enrollment{{ID: "e1", DependentID: "d1", SlotID: "w1", Status: EnrollmentConfirmed}},
		Payments:    []Payment{{ID: "p1", ClientID: "c1", Amount: 10}},
		Suppliers:   []Supplier{{ID: "s1"}},
		Venues:      []Venue{{ID: "v1", SupplierID: "s1"}, {ID: "v2"}},
	}, 1, time.Time{})

	after := snap.Without(CascadePlan{
		ClientIDs:     []string{"c1"},
		DependentIDs:  []string{"d1"},
		EnrollmentIDs: []string{"e1"},
		SupplierIDs:   []string{"s1"},
		VenueIDs:      []string{"v1"},
	})

	if _, ok := after.Client("c1"); ok {
		t.Error("c1 still present")
	}
	if _, ok := after.Client("c2"); !ok {
		t.Error("c2 removed")
	}
	if len(after.DependentsOf("c1")) != 0 || after.ConfirmedCount("w1") != 0 {
		t.Error("dependents or enrollments survived")
	}
	if len(after.PaymentsOf("c1")) != 1 {
		t.Error("payment was removed")
	}
	if len(after.Venues()) != 1 || len(after.VenuesOf("s1")) != 0 {
		t.Errorf("venues = %+v", after.Venues())
	}
}

func TestSnapshot_VenuesOfIgnoresUnlinked(t *testing.T) {
	snap := NewSnapshot(Collections{Venues: []Venue{{ID: "v1"}, {ID: "v2", SupplierID: "s1"}}}, 1, time.Time{})

	if got := snap.VenuesOf(""); got != nil {
		t.Errorf("VenuesOf(\"\") = %+v, want nil", got)
	}
	if got := snap.VenuesOf("s1"); len(got) != 1 || got[0].ID != "v2" {
		t.Errorf("VenuesOf(s1) = %+v", got)
	}
}

func TestEmptySnapshot(t *testing.T) {
	snap := EmptySnapshot()
	if snap.Version() != 0 || len(snap.Clients()) != 0 {
		t.Fatalf("unexpected empty snapshot %+v", snap.Collections())
	}
	if _, ok := snap.Company(); ok {
		t.Error("empty snapshot has a company profile")
	}
}

func TestSnapshot_FingerprintFollowsContent(t *testing.T) {
	cols := Collections{Payments: []Payment{{ID: "p1", ClientID: "c1", Amount: 25, Method: MethodCard}}}
	a := NewSnapshot(cols, 1, time.Time{})
	b := NewSnapshot(cols, 9, time.Now())

	if a.Fingerprint() == "" {
		t.Fatal("fingerprint is empty")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("same content, fingerprints %q and %q", a.Fingerprint(), b.Fingerprint())
	}

	c := a.WithPayment(Payment{ID: "p2", ClientID: "c1", Amount: 1000, Method: MethodCash})
	if c.Fingerprint() == a.Fingerprint() {
		t.Fatal("new payment kept the old fingerprint")
	}
	if c.Reversion(5).Fingerprint() != c.Fingerprint() {
		t.Fatal("Reversion changed the fingerprint")
	}
}

func TestSnapshot_WithPaymentAndCostReplaceByID(t *testing.T) {
	snap := NewSnapshot(Collections{
		Payments: []Payment{{ID: "p1", Amount: 10}},
		Costs:    []OperationalCost{{ID: "k1", Amount: 3}},
	}, 1, time.Time{})

	snap = snap.WithPayment(Payment{ID: "p1", Amount: 12}).WithPayment(Payment{ID: "p1", Amount: 12})
	snap = snap.WithCost(OperationalCost{ID: "k1", Amount: 4}).WithCost(OperationalCost{ID: "k2", Amount: 1})

	if p := snap.Payments(); len(p) != 1 || p[0].Amount != 12 {
		t.Fatalf("payments = %+v, want one p1 of 12", p)
	}
	if c := snap.Costs(); len(c) != 2 || c[0].Amount != 4 {
		t.Fatalf("costs = %+v, want k1 of 4 then k2", c)
	}
}

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"time"
)

// Collections is the raw content of the store at one point in time, in
// store order. Stable ordering of every report relies on that order.
type Collections struct {
	Clients     []Client
	Dependents  []Dependent
	Venues      []Venue
	Suppliers   []Supplier
	Slots       []WorkshopSlot
	Plans       []InscriptionPlan
	Enrollments []Enrollment
	Payments    []Payment
	Costs       []OperationalCost
	Quotes      []Quote
	Invoices    []Invoice
	Company     *CompanyProfile
}

// Snapshot is an immutable, indexed view of Collections. It is never
// modified after construction; With* methods return a new Snapshot.
type Snapshot struct {
	version     uint64
	takenAt     time.Time
	data        Collections
	fingerprint string

	clients     map[string]int
	dependents  map[string]int
	venues      map[string]int
	suppliers   map[string]int
	slots       map[string]int
	plans       map[string]int
	planByName  map[string]int
	enrollments map[string]int
	quotes      map[string]int

	dependentsByParent map[string][]int
	enrollmentsByDep   map[string][]int
	enrollmentsBySlot  map[string][]int
	paymentsByClient   map[string][]int
	venuesBySupplier   map[string][]int
}

// NewSnapshot copies c and indexes it. When an id appears twice the first
// record wins lookups; iteration still returns both.
func NewSnapshot(c Collections, version uint64, takenAt time.Time) *Snapshot {
	s := &Snapshot{
		version: version,
		takenAt: takenAt,
		data: Collections{
			Clients:     slices.Clone(c.Clients),
			Dependents:  slices.Clone(c.Dependents),
			Venues:      slices.Clone(c.Venues),
			Suppliers:   slices.Clone(c.Suppliers),
			Slots:       slices.Clone(c.Slots),
			Plans:       slices.Clone(c.Plans),
			Enrollments: slices.Clone(c.Enrollments),
			Payments:    slices.Clone(c.Payments),
			Costs:       slices.Clone(c.Costs),
			Quotes:      slices.Clone(c.Quotes),
			Invoices:    slices.Clone(c.Invoices),
		},
	}
	if c.Company != nil {
		company := *c.Company
		s.data.Company = &company
	}
	s.index()
	s.fingerprint = fingerprintOf(s.data)
	return s
}

// fingerprintOf digests the content. Equal content in store order gives the
// same value in every process.
func fingerprintOf(c Collections) string {
	body, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:16])
}

// EmptySnapshot is the view before the first load.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(Collections{}, 0, time.Time{})
}

func (s *Snapshot) index() {
	s.clients = indexBy(s.data.Clients, func(c Client) string { return c.ID })
	s.dependents = indexBy(s.data.Dependents, func(d Dependent) string { return d.ID })
	s.venues = indexBy(s.data.Venues, func(v Venue) string { return v.ID })
	s.suppliers = indexBy(s.data.Suppliers, func(x Supplier) string { return x.ID })
	s.slots = indexBy(s.data.Slots, func(x WorkshopSlot) string { return x.ID })
	s.plans = indexBy(s.data.Plans, func(p InscriptionPlan) string { return p.ID })
	s.planByName = indexBy(s.data.Plans, func(p InscriptionPlan) string { return p.Name })
	s.enrollments = indexBy(s.data.Enrollments, func(e Enrollment) string { return e.ID })
	s.quotes = indexBy(s.data.Quotes, func(q Quote) string { return q.ID })

	s.dependentsByParent = groupBy(s.data.Dependents, func(d Dependent) string { return d.ParentID })
	s.enrollmentsByDep = groupBy(s.data.Enrollments, func(e Enrollment) string { return e.DependentID })
	s.enrollmentsBySlot = groupBy(s.data.Enrollments, func(e Enrollment) string { return e.SlotID })
	s.paymentsByClient = groupBy(s.data.Payments, func(p Payment) string { return p.ClientID })
	s.venuesBySupplier = groupBy(s.data.Venues, func(v Venue) string { return v.SupplierID })
}

func indexBy[T any](items []T, key func(T) string) map[string]int {
	out := make(map[string]int, len(items))
	for i, it := range items {
		k := key(it)
		if _, seen := out[k]; !seen {
			out[k] = i
		}
	}
	return out
}

func groupBy[T any](items []T, key func(T) string) map[string][]int {
	out := make(map[string][]int)
	for i, it := range items {
		k := key(it)
		out[k] = append(out[k], i)
	}
	return out
}

func pick[T any](items []T, positions []int) []T {
	out := make([]T, 0, len(positions))
	for _, i := range positions {
		out = append(out, items[i])
	}
	return out
}

func lookup[T any](items []T, idx map[string]int, id string) (T, bool) {
	i, ok := idx[id]
	if !ok {
		var zero T
		return zero, false
	}
	return items[i], true
}

// Version increases every time the holder swaps in a new snapshot.
func (s *Snapshot) Version() uint64 { return s.version }

// Fingerprint identifies the content independently of the version, which
// is local to one process. It is empty when the content cannot be digested.
func (s *Snapshot) Fingerprint() string { return s.fingerprint }

// TakenAt is when the store content was read.
func (s *Snapshot) TakenAt() time.Time { return s.takenAt }

// Collections returns a deep-enough copy of the underlying data.
func (s *Snapshot) Collections() Collections {
	c := Collections{
		Clients:     slices.Clone(s.data.Clients),
		Dependents:  slices.Clone(s.data.Dependents),
		Venues:      slices.Clone(s.data.Venues),
		Suppliers:   slices.Clone(s.data.Suppliers),
		Slots:       slices.Clone(s.data.Slots),
		Plans:       slices.Clone(s.data.Plans),
		Enrollments: slices.Clone(s.data.Enrollments),
		Payments:    slices.Clone(s.data.Payments),
		Costs:       slices.Clone(s.data.Costs),
		Quotes:      slices.Clone(s.data.Quotes),
		Invoices:    slices.Clone(s.data.Invoices),
	}
	if s.data.Company != nil {
		company := *s.data.Company
		c.Company = &company
	}
	return c
}

func (s *Snapshot) Clients() []Client               { return slices.Clone(s.data.Clients) }
func (s *Snapshot) Dependents() []Dependent         { return slices.Clone(s.data.Dependents) }
func (s *Snapshot) Venues() []Venue                 { return slices.Clone(s.data.Venues) }
func (s *Snapshot) Suppliers() []Supplier           { return slices.Clone(s.data.Suppliers) }
func (s *Snapshot) Slots() []WorkshopSlot           { return slices.Clone(s.data.Slots) }
func (s *Snapshot) Plans() []InscriptionPlan        { return slices.Clone(s.data.Plans) }
func (s *Snapshot) Enrollments() []Enrollment       { return slices.Clone(s.data.Enrollments) }
func (s *Snapshot) Payments() []Payment             { return slices.Clone(s.data.Payments) }
func (s *Snapshot) Costs() []OperationalCost        { return slices.Clone(s.data.Costs) }
func (s *Snapshot) Quotes() []Quote                 { return slices.Clone(s.data.Quotes) }
func (s *Snapshot) Invoices() []Invoice             { return slices.Clone(s.data.Invoices) }
func (s *Snapshot) Client(id string) (Client, bool) { return lookup(s.data.Clients, s.clients, id) }
func (s *Snapshot) Venue(id string) (Venue, bool)   { return lookup(s.data.Venues, s.venues, id) }
func (s *Snapshot) Quote(id string) (Quote, bool)   { return lookup(s.data.Quotes, s.quotes, id) }

func (s *Snapshot) Dependent(id string) (Dependent, bool) {
	return lookup(s.data.Dependents, s.dependents, id)
}

func (s *Snapshot) Supplier(id string) (Supplier, bool) {
	return lookup(s.data.Suppliers, s.suppliers, id)
}

func (s *Snapshot) Slot(id string) (WorkshopSlot, bool) {
	return lookup(s.data.Slots, s.slots, id)
}

func (s *Snapshot) Plan(id string) (InscriptionPlan, bool) {
	return lookup(s.data.Plans, s.plans, id)
}

// PlanByName resolves a plan the way billing does, by its current name.
func (s *Snapshot) PlanByName(name string) (InscriptionPlan, bool) {
	return lookup(s.data.Plans, s.planByName, name)
}

func (s *Snapshot) Enrollment(id string) (Enrollment, bool) {
	return lookup(s.data.Enrollments, s.enrollments, id)
}

// Company returns the issuer profile, if configured.
func (s *Snapshot) Company() (CompanyProfile, bool) {
	if s.data.Company == nil {
		return CompanyProfile{}, false
	}
	return *s.data.Company, true
}

func (s *Snapshot) DependentsOf(clientID string) []Dependent {
	return pick(s.data.Dependents, s.dependentsByParent[clientID])
}

func (s *Snapshot) EnrollmentsOf(dependentID string) []Enrollment {
	return pick(s.data.Enrollments, s.enrollmentsByDep[dependentID])
}

func (s *Snapshot) EnrollmentsForSlot(slotID string) []Enrollment {
	return pick(s.data.Enrollments, s.enrollmentsBySlot[slotID])
}

func (s *Snapshot) PaymentsOf(clientID string) []Payment {
	return pick(s.data.Payments, s.paymentsByClient[clientID])
}

func (s *Snapshot) VenuesOf(supplierID string) []Venue {
	if supplierID == "" {
		return nil
	}
	return pick(s.data.Venues, s.venuesBySupplier[supplierID])
}

// ConfirmedCount is the number of confirmed enrollments held by a slot.
func (s *Snapshot) ConfirmedCount(slotID string) int {
	n := 0
	for _, i := range s.enrollmentsBySlot[slotID] {
		if s.data.Enrollments[i].Confirmed() {
			n++
		}
	}
	return n
}

// WithEnrollment returns a snapshot where e replaces the enrollment with the
// same id, or is appended when the id is new.
func (s *Snapshot) WithEnrollment(e Enrollment) *Snapshot {
	c := s.Collections()
	if i, ok := s.enrollments[e.ID]; ok {
		c.Enrollments[i] = e
	} else {
		c.Enrollments = append(c.Enrollments, e)
	}
	return NewSnapshot(c, s.version, s.takenAt)
}

// WithPayment returns a snapshot where p replaces the payment with the same
// id, or is appended when the id is new.
func (s *Snapshot) WithPayment(p Payment) *Snapshot {
	c := s.Collections()
	c.Payments = upsert(c.Payments, p, func(x Payment) string { return x.ID })
	return NewSnapshot(c, s.version, s.takenAt)
}

// WithCost returns a snapshot where cost replaces the cost with the same id,
// or is appended when the id is new.
func (s *Snapshot) WithCost(cost OperationalCost) *Snapshot {
	c := s.Collections()
	c.Costs = upsert(c.Costs, cost, func(x OperationalCost) string { return x.ID })
	return NewSnapshot(c, s.version, s.takenAt)
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	if key := id(item); key != "" {
		if i := slices.IndexFunc(items, func(x T) bool { return id(x) == key }); i >= 0 {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

// Without returns a snapshot with the entities named by plan removed.
// Retained records listed by the plan are kept.
func (s *Snapshot) Without(plan CascadePlan) *Snapshot {
	c := s.Collections()
	drop := func(ids ...[]string) map[string]struct{} {
		out := make(map[string]struct{})
		for _, list := range ids {
			for _, id := range list {
				out[id] = struct{}{}
			}
		}
		return out
	}
	clients := drop(plan.ClientIDs)
	deps := drop(plan.DependentIDs)
	enrollments := drop(plan.EnrollmentIDs)
	suppliers := drop(plan.SupplierIDs)
	venues := drop(plan.VenueIDs)

	c.Clients = slices.DeleteFunc(c.Clients, func(x Client) bool { _, ok := clients[x.ID]; return ok })
	c.Dependents = slices.DeleteFunc(c.Dependents, func(x Dependent) bool { _, ok := deps[x.ID]; return ok })
	c.Enrollments = slices.DeleteFunc(c.Enrollments, func(x Enrollment) bool { _, ok := enrollments[x.ID]; return ok })
	c.Suppliers = slices.DeleteFunc(c.Suppliers, func(x Supplier) bool { _, ok := suppliers[x.ID]; return ok })
	c.Venues = slices.DeleteFunc(c.Venues, func(x Venue) bool { _, ok := venues[x.ID]; return ok })
	return NewSnapshot(c, s.version, s.takenAt)
}

// Reversion returns the same content under a new version number.
func (s *Snapshot) Reversion(version uint64) *Snapshot {
	out := *s
	out.version = version
	return &out
}

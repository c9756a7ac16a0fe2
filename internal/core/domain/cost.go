package domain

import (
	"fmt"
	"strconv"
	"time"
)

// CostType separates fuel reimbursements from every other expense.
type CostType string

const (
	CostGeneral CostType = "general"
	CostFuel    CostType = "fuel"
)

// FuelCategory is the category fuel costs are filed under.
const FuelCategory = "Carburante"

// OperationalCost is an expense, optionally linked to a supplier and/or a slot.
type OperationalCost struct {
	ID            string        `json:"id"`
	Description   string        `json:"description"`
	Amount        float64       `json:"amount"`
	Date          time.Time     `json:"date"`
	Category      string        `json:"category"`
	SupplierID    string        `json:"supplier_id,omitempty"`
	SlotID        string        `json:"slot_id,omitempty"`
	Method        PaymentMethod `json:"method,omitempty"`
	CostType      CostType      `json:"cost_type"`
	VenueID       string        `json:"venue_id,omitempty"`
	DistanceKm    float64       `json:"distance_km,omitempty"`
	FuelCostPerKm float64       `json:"fuel_cost_per_km,omitempty"`
}

// NewFuelCost prices a round trip to venue: distance counts twice.
func NewFuelCost(venue Venue, distanceKm, costPerKm float64, date time.Time) OperationalCost {
	return OperationalCost{
		Description:   fmt.Sprintf("Carburante per %s (%skm A/R)", venue.Name, strconv.FormatFloat(distanceKm, 'f', -1, 64)),
		Amount:        RoundCents(distanceKm * 2 * costPerKm),
		Date:          date,
		Category:      FuelCategory,
		CostType:      CostFuel,
		VenueID:       venue.ID,
		SupplierID:    venue.SupplierID,
		DistanceKm:    distanceKm,
		FuelCostPerKm: costPerKm,
	}
}

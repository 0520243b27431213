package jobs

import (
	"time"

	"staffing/internal/domain/rates"
)

type Job struct {
	ID               string           `json:"id"`
	FacilityID       string           `json:"facilityId"`
	InterpreterID    string           `json:"interpreterId,omitempty"`
	Status           string           `json:"status"`
	Language         string           `json:"language"`
	Trilingual       bool             `json:"trilingual"`
	TrilingualUplift float64          `json:"trilingualUplift"`
	Date             time.Time        `json:"jobDate"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	MinimumHours     *float64         `json:"minimumHours,omitempty"`
	FacilityRates    rates.PartyRates `json:"facilityRates"`
	InterpreterRates rates.PartyRates `json:"interpreterRates"`
	Mileage          float64          `json:"mileage"`
	TravelTimeHours  float64          `json:"travelTimeHours"`
	Parking          float64          `json:"parking"`
	Tolls            float64          `json:"tolls"`
	MiscFee          float64          `json:"miscFee"`
	Totals           rates.Projection `json:"totals"`
	Notes            string           `json:"notes"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type Outreach struct {
	ID            string     `json:"id"`
	JobID         string     `json:"jobId"`
	InterpreterID string     `json:"interpreterId"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

type ListFilter struct {
	Status        string
	FacilityID    string
	InterpreterID string
	From          time.Time
	To            time.Time
}

// Priced is a job together with its live cost breakdown.
type Priced struct {
	Job   Job                 `json:"job"`
	Quote rates.BillableTotal `json:"quote"`
}

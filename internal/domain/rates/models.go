package rates

const (
	// Business window is [08:00, 17:00) local time, in minutes since midnight.
	BusinessStartMinute = 8 * 60
	BusinessEndMinute   = 17 * 60
	MinutesPerDay       = 24 * 60

	DefaultMinimumHours = 2.0
	DefaultMileageRate  = 0.70
)

type HoursSplit struct {
	TotalHours     float64 `json:"totalHours"`
	BusinessHours  float64 `json:"businessHours"`
	AfterHours     float64 `json:"afterHours"`
	BillableHours  float64 `json:"billableHours"`
	MinimumApplied float64 `json:"minimumApplied"`
}

// PartyRates are the per-hour and per-mile rates of one side of a job.
// RateAdjustment may be negative (a discount).
type PartyRates struct {
	BusinessRate   float64 `json:"businessRate" validate:"gte=0"`
	AfterHoursRate float64 `json:"afterHoursRate" validate:"gte=0"`
	MileageRate    float64 `json:"mileageRate" validate:"gte=0"`
	RateAdjustment float64 `json:"rateAdjustment"`
}

// MileageFallback is consulted when a side has no mileage rate of its own.
type MileageFallback struct {
	FacilityDefault float64 `json:"facilityDefault"`
	System          float64 `json:"system"`
}

type RateInputs struct {
	Facility        PartyRates      `json:"facility"`
	Interpreter     PartyRates      `json:"interpreter"`
	Mileage         float64         `json:"mileage"`
	TravelTimeHours float64         `json:"travelTimeHours"`
	Parking         float64         `json:"parking"`
	Tolls           float64         `json:"tolls"`
	MiscFee         float64         `json:"miscFee"`
	MileageFallback MileageFallback `json:"mileageFallback"`
}

type SideTotal struct {
	BusinessRate    float64 `json:"businessRate"`
	AfterHoursRate  float64 `json:"afterHoursRate"`
	MileageRate     float64 `json:"mileageRate"`
	BusinessTotal   float64 `json:"businessTotal"`
	AfterHoursTotal float64 `json:"afterHoursTotal"`
	MileageTotal    float64 `json:"mileageTotal"`
	FeesTotal       float64 `json:"feesTotal"`
	TravelTimeRate  float64 `json:"travelTimeRate,omitempty"`
	TravelTimeTotal float64 `json:"travelTimeTotal,omitempty"`
	Total           float64 `json:"total"`
}

// HourlyTotal is the labour portion of a side, without mileage, travel or fees.
func (s SideTotal) HourlyTotal() float64 {
	return s.BusinessTotal + s.AfterHoursTotal
}

type BillableTotal struct {
	Hours           HoursSplit `json:"hours"`
	Facility        SideTotal  `json:"facility"`
	Interpreter     SideTotal  `json:"interpreter"`
	Mileage         float64    `json:"mileage"`
	TravelTimeHours float64    `json:"travelTimeHours"`
	Parking         float64    `json:"parking"`
	Tolls           float64    `json:"tolls"`
	MiscFee         float64    `json:"miscFee"`
}

// Projection is the subset of a BillableTotal stored on the job record.
type Projection struct {
	FacilityHourlyTotal      float64 `json:"facilityHourlyTotal"`
	FacilityBillableTotal    float64 `json:"facilityBillableTotal"`
	InterpreterHourlyTotal   float64 `json:"interpreterHourlyTotal"`
	InterpreterBillableTotal float64 `json:"interpreterBillableTotal"`
}

func (b BillableTotal) Projection() Projection {
	return Projection{
		FacilityHourlyTotal:      RoundCurrency(b.Facility.HourlyTotal()),
		FacilityBillableTotal:    RoundCurrency(b.Facility.Total),
		InterpreterHourlyTotal:   RoundCurrency(b.Interpreter.HourlyTotal()),
		InterpreterBillableTotal: RoundCurrency(b.Interpreter.Total),
	}
}

package rates

import "sync"

// Terms is everything needed to price one job, already pulled from the job,
// facility and interpreter records and the system settings.
type Terms struct {
	StartTime                  string     `json:"startTime"`
	EndTime                    string     `json:"endTime"`
	MinimumHours               float64    `json:"minimumHours"`
	Facility                   PartyRates `json:"facility"`
	Interpreter                PartyRates `json:"interpreter"`
	TrilingualUplift           float64    `json:"trilingualUplift"`
	Mileage                    float64    `json:"mileage"`
	TravelTimeHours            float64    `json:"travelTimeHours"`
	Parking                    float64    `json:"parking"`
	Tolls                      float64    `json:"tolls"`
	MiscFee                    float64    `json:"miscFee"`
	FacilityDefaultMileageRate float64    `json:"facilityDefaultMileageRate"`
	SystemMileageRate          float64    `json:"systemMileageRate"`
}

// RateInputs coerces every numeric term and bakes the trilingual uplift into
// the facility rates. The interpreter side never sees the uplift.
func (t Terms) RateInputs() RateInputs {
	uplift := Finite(t.TrilingualUplift)
	facility := finiteParty(t.Facility)
	facility.BusinessRate += uplift
	facility.AfterHoursRate += uplift
	return RateInputs{
		Facility:        facility,
		Interpreter:     finiteParty(t.Interpreter),
		Mileage:         Finite(t.Mileage),
		TravelTimeHours: Finite(t.TravelTimeHours),
		Parking:         Finite(t.Parking),
		Tolls:           Finite(t.Tolls),
		MiscFee:         Finite(t.MiscFee),
		MileageFallback: MileageFallback{
			FacilityDefault: Finite(t.FacilityDefaultMileageRate),
			System:          Finite(t.SystemMileageRate),
		},
	}
}

func finiteParty(p PartyRates) PartyRates {
	return PartyRates{
		BusinessRate:   Finite(p.BusinessRate),
		AfterHoursRate: Finite(p.AfterHoursRate),
		MileageRate:    Finite(p.MileageRate),
		RateAdjustment: Finite(p.RateAdjustment),
	}
}

func Quote(t Terms) (BillableTotal, error) {
	split, err := SplitHours(t.StartTime, t.EndTime, t.MinimumHours)
	if err != nil {
		return BillableTotal{}, err
	}
	return Calculate(split, t.RateInputs()), nil
}

// Quoter remembers the last quote and returns it again while the terms are unchanged.
type Quoter struct {
	mu    sync.Mutex
	valid bool
	last  Terms
	total BillableTotal
	err   error
}

func (q *Quoter) Quote(t Terms) (BillableTotal, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.valid && q.last == t {
		return q.total, q.err
	}
	q.total, q.err = Quote(t)
	q.last = t
	q.valid = true
	return q.total, q.err
}

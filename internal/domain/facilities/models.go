package facilities

import (
	"time"

	"staffing/internal/domain/rates"
)

type Facility struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name" validate:"required,max=200"`
	Address            string    `json:"address" validate:"max=500"`
	ContactName        string    `json:"contactName" validate:"max=200"`
	ContactEmail       string    `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone       string    `json:"contactPhone" validate:"max=50"`
	BusinessRate       float64   `json:"businessRate" validate:"gte=0"`
	AfterHoursRate     float64   `json:"afterHoursRate" validate:"gte=0"`
	MileageRate        float64   `json:"mileageRate" validate:"gte=0"`
	DefaultMileageRate float64   `json:"defaultMileageRate" validate:"gte=0"`
	MinimumHours       *float64  `json:"minimumHours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Notes              string    `json:"notes"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Rates returns the facility's standing rates as the billed side of a job.
func (f Facility) Rates() rates.PartyRates {
	return rates.PartyRates{
		BusinessRate:   f.BusinessRate,
		AfterHoursRate: f.AfterHoursRate,
		MileageRate:    f.MileageRate,
	}
}

type ListFilter struct {
	Search     string
	ActiveOnly bool
}

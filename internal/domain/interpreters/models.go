package interpreters

import (
	"strings"
	"time"

	"staffing/internal/domain/rates"
)

type Interpreter struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName" validate:"required,max=100"`
	LastName       string    `json:"lastName" validate:"required,max=100"`
	Email          string    `json:"email" validate:"omitempty,email"`
	Phone          string    `json:"phone" validate:"max=50"`
	Languages      []string  `json:"languages" validate:"dive,required,max=60"`
	Certified      bool      `json:"certified"`
	BusinessRate   float64   `json:"businessRate" validate:"gte=0"`
	AfterHoursRate float64   `json:"afterHoursRate" validate:"gte=0"`
	MileageRate    float64   `json:"mileageRate" validate:"gte=0"`
	MinimumHours   *float64  `json:"minimumHours,omitempty" validate:"omitempty,gte=0,lte=24"`
	Notes          string    `json:"notes"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (i Interpreter) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// Rates returns the interpreter's standing pay rates.
func (i Interpreter) Rates() rates.PartyRates {
	return rates.PartyRates{
		BusinessRate:   i.BusinessRate,
		AfterHoursRate: i.AfterHoursRate,
		MileageRate:    i.MileageRate,
	}
}

// Speaks reports whether the interpreter lists the language, ignoring case.
func (i Interpreter) Speaks(language string) bool {
	for _, l := range i.Languages {
		if strings.EqualFold(strings.TrimSpace(l), strings.TrimSpace(language)) {
			return true
		}
	}
	return false
}

type ListFilter struct {
	Search     string
	Language   string
	ActiveOnly bool
}

package jobs

import (
	"testing"

	"staffing/internal/domain/facilities"
	"staffing/internal/domain/interpreters"
	"staffing/internal/domain/rates"
)

func hours(v float64) *float64 { return &v }

func TestMinimumHoursPrecedence(t *testing.T) {
	facility := facilities.Facility{MinimumHours: hours(3)}
	interpreter := &interpreters.Interpreter{MinimumHours: hours(4)}

	if got := MinimumHours(Job{MinimumHours: hours(1)}, facility, interpreter, 2); got != 1 {
		t.Fatalf("expected job override 1, got %v", got)
	}
	if got := MinimumHours(Job{}, facility, interpreter, 2); got != 3 {
		t.Fatalf("expected facility minimum 3, got %v", got)
	}
	if got := MinimumHours(Job{}, facilities.Facility{}, interpreter, 2); got != 4 {
		t.Fatalf("expected interpreter minimum 4, got %v", got)
	}
	if got := MinimumHours(Job{}, facilities.Facility{}, nil, 2); got != 2 {
		t.Fatalf("expected fallback 2, got %v", got)
	}
}

func TestApplyDefaultsKeepsExplicitRates(t *testing.T) {
	job := Job{FacilityRates: rates.PartyRates{BusinessRate: 90, RateAdjustment: 5}}
	ApplyFacilityDefaults(&job, facilities.Facility{BusinessRate: 100, AfterHoursRate: 150, MileageRate: 0.8})

	want := rates.PartyRates{BusinessRate: 90, AfterHoursRate: 150, MileageRate: 0.8, RateAdjustment: 5}
	if job.FacilityRates != want {
		t.Fatalf("expected %+v, got %+v", want, job.FacilityRates)
	}
}

func TestTermsIgnoresUpliftUnlessTrilingual(t *testing.T) {
	job := Job{StartTime: "09:00", EndTime: "10:00", TrilingualUplift: 10}
	if got := Terms(job, facilities.Facility{}, nil, 0.7, 2).TrilingualUplift; got != 0 {
		t.Fatalf("expected no uplift, got %v", got)
	}
	job.Trilingual = true
	terms := Terms(job, facilities.Facility{DefaultMileageRate: 0.6}, nil, 0.7, 2)
	if terms.TrilingualUplift != 10 {
		t.Fatalf("expected uplift 10, got %v", terms.TrilingualUplift)
	}
	if terms.FacilityDefaultMileageRate != 0.6 || terms.SystemMileageRate != 0.7 {
		t.Fatalf("expected mileage fallbacks 0.6/0.7, got %+v", terms)
	}
}

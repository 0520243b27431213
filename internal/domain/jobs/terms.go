package jobs

import (
	"staffing/internal/domain/facilities"
	"staffing/internal/domain/interpreters"
	"staffing/internal/domain/rates"
)

// ApplyFacilityDefaults fills the facility rates the job leaves at zero from the facility record.
func ApplyFacilityDefaults(job *Job, facility facilities.Facility) {
	fillRates(&job.FacilityRates, facility.Rates())
}

// ApplyInterpreterDefaults fills the interpreter rates the job leaves at zero from the interpreter record.
func ApplyInterpreterDefaults(job *Job, interpreter interpreters.Interpreter) {
	fillRates(&job.InterpreterRates, interpreter.Rates())
}

func fillRates(dst *rates.PartyRates, defaults rates.PartyRates) {
	if dst.BusinessRate == 0 {
		dst.BusinessRate = defaults.BusinessRate
	}
	if dst.AfterHoursRate == 0 {
		dst.AfterHoursRate = defaults.AfterHoursRate
	}
	if dst.MileageRate == 0 {
		dst.MileageRate = defaults.MileageRate
	}
}

// MinimumHours picks the floor for a job: its own override, then the
// facility's, then the interpreter's, then fallback.
func MinimumHours(job Job, facility facilities.Facility, interpreter *interpreters.Interpreter, fallback float64) float64 {
	switch {
	case job.MinimumHours != nil:
		return *job.MinimumHours
	case facility.MinimumHours != nil:
		return *facility.MinimumHours
	case interpreter != nil && interpreter.MinimumHours != nil:
		return *interpreter.MinimumHours
	}
	return fallback
}

// Terms assembles the calculator input for a job. The trilingual uplift only
// counts when the job is flagged trilingual.
func Terms(job Job, facility facilities.Facility, interpreter *interpreters.Interpreter, systemMileageRate, defaultMinimumHours float64) rates.Terms {
	uplift := 0.0
	if job.Trilingual {
		uplift = job.TrilingualUplift
	}
	return rates.Terms{
		StartTime:                  job.StartTime,
		EndTime:                    job.EndTime,
		MinimumHours:               MinimumHours(job, facility, interpreter, defaultMinimumHours),
		Facility:                   job.FacilityRates,
		Interpreter:                job.InterpreterRates,
		TrilingualUplift:           uplift,
		Mileage:                    job.Mileage,
		TravelTimeHours:            job.TravelTimeHours,
		Parking:                    job.Parking,
		Tolls:                      job.Tolls,
		MiscFee:                    job.MiscFee,
		FacilityDefaultMileageRate: facility.DefaultMileageRate,
		SystemMileageRate:          systemMileageRate,
	}
}

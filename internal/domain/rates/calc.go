package rates

// Calculate prices a job for both the billed facility and the paid interpreter.
// It does no rounding and no validation; callers coerce form input first.
func Calculate(split HoursSplit, in RateInputs) BillableTotal {
	fees := in.Parking + in.Tolls + in.MiscFee

	facility := side(split, in.Facility, in.Mileage, in.MileageFallback, fees)
	facility.Total = facility.BusinessTotal + facility.AfterHoursTotal + facility.MileageTotal + facility.FeesTotal

	interpreter := side(split, in.Interpreter, in.Mileage, in.MileageFallback, fees)
	interpreter.TravelTimeRate = interpreter.AfterHoursRate
	if split.BusinessHours >= split.AfterHours {
		interpreter.TravelTimeRate = interpreter.BusinessRate
	}
	interpreter.TravelTimeTotal = in.TravelTimeHours * interpreter.TravelTimeRate
	interpreter.Total = interpreter.BusinessTotal + interpreter.AfterHoursTotal + interpreter.MileageTotal +
		interpreter.TravelTimeTotal + interpreter.FeesTotal

	return BillableTotal{
		Hours:           split,
		Facility:        facility,
		Interpreter:     interpreter,
		Mileage:         in.Mileage,
		TravelTimeHours: in.TravelTimeHours,
		Parking:         in.Parking,
		Tolls:           in.Tolls,
		MiscFee:         in.MiscFee,
	}
}

func side(split HoursSplit, party PartyRates, mileage float64, fallback MileageFallback, fees float64) SideTotal {
	businessRate := party.BusinessRate + party.RateAdjustment
	afterHoursRate := party.AfterHoursRate + party.RateAdjustment
	mileageRate := fallback.Resolve(party.MileageRate)
	return SideTotal{
		BusinessRate:    businessRate,
		AfterHoursRate:  afterHoursRate,
		MileageRate:     mileageRate,
		BusinessTotal:   split.BusinessHours * businessRate,
		AfterHoursTotal: split.AfterHours * afterHoursRate,
		MileageTotal:    mileage * mileageRate,
		FeesTotal:       fees,
	}
}

// Resolve picks the first configured mileage rate: the side's own, the
// facility default, the system setting, then DefaultMileageRate.
func (f MileageFallback) Resolve(sideRate float64) float64 {
	for _, candidate := range []float64{sideRate, f.FacilityDefault, f.System} {
		if candidate != 0 {
			return candidate
		}
	}
	return DefaultMileageRate
}

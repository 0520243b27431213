package billing

import "staffing/internal/domain/rates"

func line(description string, quantity, rate, amount float64) Line {
	return Line{
		Description: description,
		Quantity:    rates.RoundCurrency(quantity),
		Rate:        rates.RoundCurrency(rate),
		Amount:      rates.RoundCurrency(amount),
	}
}

func sideLines(hours rates.HoursSplit, side rates.SideTotal, total rates.BillableTotal) []Line {
	var out []Line
	if hours.BusinessHours > 0 {
		out = append(out, line("Business hours", hours.BusinessHours, side.BusinessRate, side.BusinessTotal))
	}
	if hours.AfterHours > 0 {
		out = append(out, line("After-hours", hours.AfterHours, side.AfterHoursRate, side.AfterHoursTotal))
	}
	if total.Mileage > 0 {
		out = append(out, line("Mileage", total.Mileage, side.MileageRate, side.MileageTotal))
	}
	for _, fee := range []struct {
		name   string
		amount float64
	}{
		{"Parking", total.Parking},
		{"Tolls", total.Tolls},
		{"Miscellaneous", total.MiscFee},
	} {
		if fee.amount != 0 {
			out = append(out, line(fee.name, 1, fee.amount, fee.amount))
		}
	}
	return out
}

// balance appends a "Rounding" line when the rounded line amounts do not add
// up to the rounded side total, so lines always sum to the document amount.
func balance(lines []Line, sideTotal float64) []Line {
	var sum float64
	for _, l := range lines {
		sum += l.Amount
	}
	delta := rates.RoundCurrency(rates.RoundCurrency(sideTotal) - sum)
	if delta == 0 {
		return lines
	}
	return append(lines, line("Rounding", 1, delta, delta))
}

// InvoiceLines itemises what the facility is charged.
func InvoiceLines(total rates.BillableTotal) []Line {
	return balance(sideLines(total.Hours, total.Facility, total), total.Facility.Total)
}

// PayableLines itemises what the interpreter is paid, travel time included.
func PayableLines(total rates.BillableTotal) []Line {
	out := sideLines(total.Hours, total.Interpreter, total)
	if total.TravelTimeHours > 0 {
		out = append(out, line("Travel time", total.TravelTimeHours, total.Interpreter.TravelTimeRate, total.Interpreter.TravelTimeTotal))
	}
	return balance(out, total.Interpreter.Total)
}

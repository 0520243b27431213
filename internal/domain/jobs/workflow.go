package jobs

import "fmt"

var transitions = map[string][]string{
	StatusPending:   {StatusOutreach, StatusConfirmed, StatusCancelled},
	StatusOutreach:  {StatusPending, StatusOutreach, StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusBilled, StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to string) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Editable reports whether rates, times and expenses may still change.
func Editable(status string) bool {
	return status == StatusPending || status == StatusOutreach || status == StatusConfirmed
}

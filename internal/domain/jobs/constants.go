package jobs

const (
	StatusPending   = "pending"
	StatusOutreach  = "outreach"
	StatusConfirmed = "confirmed"
	StatusBilled    = "billed"
	StatusCancelled = "cancelled"

	OutreachSent      = "sent"
	OutreachAccepted  = "accepted"
	OutreachDeclined  = "declined"
	OutreachWithdrawn = "withdrawn"
)

var Statuses = []string{StatusPending, StatusOutreach, StatusConfirmed, StatusBilled, StatusCancelled}

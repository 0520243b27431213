package billing

import "time"

// Line is one row of an invoice or payable.
type Line struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type Invoice struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	JobID      string     `json:"jobId"`
	FacilityID string     `json:"facilityId"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	Lines      []Line     `json:"lines"`
	IssuedAt   time.Time  `json:"issuedAt"`
	DueDate    time.Time  `json:"dueDate"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
}

type Payable struct {
	ID            string     `json:"id"`
	JobID         string     `json:"jobId"`
	InterpreterID string     `json:"interpreterId"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	Lines         []Line     `json:"lines"`
	CreatedAt     time.Time  `json:"createdAt"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// Generated is the pair of documents produced when a job is billed.
type Generated struct {
	Invoice Invoice `json:"invoice"`
	Payable Payable `json:"payable"`
}

type ListFilter struct {
	Status  string
	PartyID string
	From    time.Time
	To      time.Time
}

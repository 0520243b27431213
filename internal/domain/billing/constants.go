package billing

const (
	InvoiceDraft = "draft"
	InvoiceSent  = "sent"
	InvoicePaid  = "paid"
	InvoiceVoid  = "void"

	PayablePending = "pending"
	PayablePaid    = "paid"

	invoiceSheet = "Invoices"
	payableSheet = "Payables"
)

var InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceVoid}

var PayableStatuses = []string{PayablePending, PayablePaid}

package cases

// Record is the canonical shape of one case to be reflected in the
// spreadsheet. ID is the business key used for row lookup and is the only
// required field; it never changes once set.
type Record struct {
	ID              int
	Client          string
	PledgeDate      string
	AppointmentDate string
	Clinic          string
	PledgeAmount    *int
	InvoiceStatus   string
	Contact         string
}

// RowRef is the outcome of locating or reserving a slot for a Record.
// Row is a 1-based sheet row; IsNew distinguishes a freshly allocated slot
// from a found existing row.
type RowRef struct {
	Row   int
	IsNew bool
}

// RowValues serializes the record into the fixed 8-cell row layout:
// id, client, pledgeDate, appointmentDate, clinic, pledgeAmount,
// invoiceStatus, contact. Absent fields become explicit nulls so the row is
// always exactly 8 cells wide and later columns never shift.
func (r Record) RowValues() []any {
	return []any{
		r.ID,
		nullableString(r.Client),
		nullableString(r.PledgeDate),
		nullableString(r.AppointmentDate),
		nullableString(r.Clinic),
		nullableAmount(r.PledgeAmount),
		nullableString(r.InvoiceStatus),
		nullableString(r.Contact),
	}
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableAmount(n *int) any {
	if n == nil || *n == 0 {
		return nil
	}
	return *n
}

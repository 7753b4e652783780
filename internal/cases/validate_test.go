package cases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareMissingID(t *testing.T) {
	rec, reason := Prepare(map[string]any{"client": "Dan B."})
	assert.Nil(t, rec)
	assert.Contains(t, reason, "id")
}

func TestPrepareCoercesStrings(t *testing.T) {
	rec, reason := Prepare(map[string]any{
		"id":           "35",
		"pledgeAmount": "700",
		"pledgeDate":   "2023-07-15",
	})
	require.Empty(t, reason)
	assert.Equal(t, 35, rec.ID)
	require.NotNil(t, rec.PledgeAmount)
	assert.Equal(t, 700, *rec.PledgeAmount)
	assert.Equal(t, "2023-07-15", rec.PledgeDate)
}

func TestPrepareRejectsNegativeAmount(t *testing.T) {
	rec, reason := Prepare(map[string]any{"id": 35, "pledgeAmount": -1})
	assert.Nil(t, rec)
	assert.Contains(t, reason, "pledgeAmount")
}

func TestPrepareIDValues(t *testing.T) {
	tests := []struct {
		name string
		id   any
		ok   bool
	}{
		{"int", 35, true},
		{"json number", float64(35), true},
		{"digit string", "35", true},
		{"zero", 0, false},
		{"negative", -3, false},
		{"fractional", 35.5, false},
		{"non-numeric string", "thirty-five", false},
		{"wrong type", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, reason := Prepare(map[string]any{"id": tt.id})
			if tt.ok {
				require.Empty(t, reason)
				assert.Equal(t, 35, rec.ID)
			} else {
				assert.Nil(t, rec)
				assert.Contains(t, reason, "id")
			}
		})
	}
}

func TestPrepareDates(t *testing.T) {
	tests := []struct {
		date string
		ok   bool
	}{
		{"2023-07-15", true},
		{"7/15/2023", true},
		{"12/31/2023", true},
		{"15/7/2023", false},
		{"2023/07/15", false},
		{"1999-01-01", false},
		{"not a date", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			rec, reason := Prepare(map[string]any{"id": 1, "appointmentDate": tt.date})
			if tt.ok {
				require.Empty(t, reason)
				assert.Equal(t, tt.date, rec.AppointmentDate)
			} else {
				assert.Nil(t, rec)
				assert.Contains(t, reason, "appointmentDate")
			}
		})
	}
}

func TestPrepareDropsEmptyOptionals(t *testing.T) {
	rec, reason := Prepare(map[string]any{
		"id":           "27710",
		"client":       "",
		"clinic":       42,
		"pledgeDate":   "",
		"pledgeAmount": "",
	})
	require.Empty(t, reason)
	assert.Equal(t, 27710, rec.ID)
	assert.Empty(t, rec.Client)
	assert.Empty(t, rec.Clinic)
	assert.Empty(t, rec.PledgeDate)
	assert.Nil(t, rec.PledgeAmount)
}

func TestPreparePassesThroughStrings(t *testing.T) {
	rec, reason := Prepare(map[string]any{
		"id":            35,
		"client":        "Dan B.",
		"clinic":        "Test Clinic",
		"invoiceStatus": "Sent",
		"contact":       "Chi Chi",
	})
	require.Empty(t, reason)
	assert.Equal(t, "Dan B.", rec.Client)
	assert.Equal(t, "Test Clinic", rec.Clinic)
	assert.Equal(t, "Sent", rec.InvoiceStatus)
	assert.Equal(t, "Chi Chi", rec.Contact)
}

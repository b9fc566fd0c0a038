package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/invoice-extract/internal/model"
)

func TestDateLocator_DocumentMonthForms(t *testing.T) {
	l := newDateLocator(DateFromDocument, nil, time.Now)

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"full month", "placed on March 4, 2024 by phone", "March 4, 2024"},
		{"abbreviated month", "shipped Mar 4 2024", "Mar 4 2024"},
		{"with time", "Jan 2, 2023 10:15 pm PST confirmed", "Jan 2, 2023 10:15 pm PST"},
		{"ordinal day", "due September 1st, 2025", "September 1st, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := l.locate(tt.doc)
			require.True(t, f.OK(), "expected a match in %q", tt.doc)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestDateLocator_LabeledDateTime(t *testing.T) {
	l := newDateLocator(DateFromDocument, nil, time.Now)

	f := l.locate("header\nOrder Placed Date: 2024/03/04 10:14:07\nfooter")
	require.True(t, f.OK())
	assert.Equal(t, "2024/03/04 10:14:07", f.Value)
}

func TestDateLocator_LabelRequiresWordBoundary(t *testing.T) {
	// "date" embedded in a longer word ("Update:") is not a date label.
	l := newDateLocator(DateFromDocument, nil, time.Now)

	f := l.locate("Update: shipped 10:14:07")
	assert.Equal(t, model.FieldNotFound, f.State)
}

func TestDateLocator_DocumentStrategyNeverUsesClock(t *testing.T) {
	clock := func() time.Time {
		t.Fatal("document strategy must not consult the clock")
		return time.Time{}
	}
	l := newDateLocator(DateFromDocument, nil, clock)

	f := l.locate("no date in here")
	assert.Equal(t, model.FieldNotFound, f.State)
}

func TestDateLocator_CaptureStrategyStampsReferenceZone(t *testing.T) {
	pst := time.FixedZone("PST", -8*3600)
	clock := func() time.Time {
		return time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)
	}
	l := newDateLocator(DateFromCapture, pst, clock)

	f := l.locate("document content is irrelevant to the capture strategy")
	require.True(t, f.OK())
	assert.Equal(t, "2024-03-04 10:00:00", f.Value)
}

func TestDateLocator_CaptureStrategyIgnoresDocumentDates(t *testing.T) {
	// No silent mixing: capture mode stamps even when the document states a
	// parseable date.
	pst := time.FixedZone("PST", -8*3600)
	clock := func() time.Time {
		return time.Date(2026, 1, 1, 8, 30, 0, 0, time.UTC)
	}
	l := newDateLocator(DateFromCapture, pst, clock)

	f := l.locate("Order Placed Date: March 4, 2024 10:14:07")
	require.True(t, f.OK())
	assert.Equal(t, "2026-01-01 00:30:00", f.Value)
}

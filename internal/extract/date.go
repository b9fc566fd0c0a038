package extract

import (
	"regexp"
	"time"

	"github.com/sells-group/invoice-extract/internal/model"
)

// monthNames is the calendar vocabulary for document-stated dates, full names
// and abbreviations.
const monthNames = `Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|` +
	`Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?`

var (
	// "March 4, 2024" / "Mar 4 2024 10:15 pm PST" and similar. The optional
	// time-of-day tail stays on the same physical line.
	monthDateRe = regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}` +
		`(?:[ \t]+\d{1,2}:\d{2}(?::\d{2})?(?:[ \t]*(?:am|pm))?(?:[ \t]+[A-Z]{2,4}\b)?)?`)

	// "Order Placed Date: ... 10:14:07" — label followed by a free-form
	// date/time string ending in an hour:minute:second token.
	labeledDateRe = regexp.MustCompile(`(?i)\b(?:order\s+placed\s+date|date)\s*:\s*(\S.*\d{1,2}:\d{2}:\d{2})`)
)

// captureFormat renders capture-time stamps; fixed so exports stay uniform.
const captureFormat = "2006-01-02 15:04:05"

// dateLocator resolves the order date with exactly one of the two configured
// strategies. Document mode parses what the invoice states and returns a
// miss when nothing parses; capture mode stamps the processing time in the
// reference zone. The strategies answer different questions, so there is no
// cross-fallback between them.
type dateLocator struct {
	strategy DateStrategy
	zone     *time.Location
	now      func() time.Time
}

func newDateLocator(strategy DateStrategy, zone *time.Location, now func() time.Time) *dateLocator {
	return &dateLocator{strategy: strategy, zone: zone, now: now}
}

func (l *dateLocator) locate(doc string) model.Field {
	if l.strategy == DateFromCapture {
		stamp := l.now().In(l.zone).Format(captureFormat)
		return model.Found(stamp, "")
	}

	if m := monthDateRe.FindString(doc); m != "" {
		return model.Found(m, m)
	}
	if m := labeledDateRe.FindStringSubmatch(doc); m != nil {
		return model.Found(m[1], m[0])
	}
	return model.NotFound()
}

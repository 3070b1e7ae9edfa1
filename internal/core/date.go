package core

import "time"

// DateLayout is the en-GB calendar format the ledger has always used in
// its persisted blob and CSV export.
const DateLayout = "02/01/2006"

// ParseDate accepts the canonical dd/mm/yyyy form and, for older blobs,
// ISO yyyy-mm-dd. An empty string is the zero date (optional deadline).
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range []string{DateLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t.UTC()}, nil
		}
	}
	return Date{}, ErrInvalidDate
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

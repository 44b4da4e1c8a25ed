package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var displayIDRe = regexp.MustCompile(`^\s*(\d+)\s*/\s*(\d{2})\s*$`)

// DisplayID is the human-facing "{id}/{YY}" identifier of admissions and repairs.
type DisplayID struct {
	ID   int64
	Year int // two-digit year, 0-99
}

func (d DisplayID) String() string {
	return fmt.Sprintf("%d/%02d", d.ID, d.Year)
}

// FormatDisplayID builds the display identifier for a row from its numeric id
// and the year of its creation timestamp.
func FormatDisplayID(id int64, createdAt time.Time) string {
	return DisplayID{ID: id, Year: createdAt.Year() % 100}.String()
}

// ParseDisplayID extracts the numeric id and two-digit year from a string such
// as "42/25".
func ParseDisplayID(raw string) (DisplayID, error) {
	m := displayIDRe.FindStringSubmatch(raw)
	if len(m) != 3 {
		return DisplayID{}, fmt.Errorf("unable to parse display id: %q", raw)
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return DisplayID{}, fmt.Errorf("unable to parse display id: %q", raw)
	}
	year, _ := strconv.Atoi(m[2])
	return DisplayID{ID: id, Year: year}, nil
}

package enum

import (
	"encoding/json"
	"time"
)

// Period is a named business day relative to now
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
)

func (p Period) String() string {
	return string(p)
}

// IsValid checks if the period is a known one
func (p Period) IsValid() bool {
	return p == PeriodToday || p == PeriodYesterday
}

// Day returns midnight of the day the period names, in now's location
func (p Period) Day(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if p == PeriodYesterday {
		return midnight.AddDate(0, 0, -1)
	}
	return midnight
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

func (p *Period) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*p = Period(str)
	return nil
}

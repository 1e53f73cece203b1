package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TaxUsage tells which of the two global tax settings a TaxInfo is for
type TaxUsage int

const (
	TaxUsageGlobalStandardVAT TaxUsage = 0
	TaxUsageGlobalReducedVAT  TaxUsage = 1
)

func (u TaxUsage) String() string {
	names := [...]string{"GlobalStandardVAT", "GlobalReducedVAT"}
	if int(u) < 0 || int(u) >= len(names) {
		return "GlobalStandardVAT"
	}
	return names[u]
}

// IsValid reports whether u is one of the two global usages
func (u TaxUsage) IsValid() bool {
	return u == TaxUsageGlobalStandardVAT || u == TaxUsageGlobalReducedVAT
}

// ParseTaxUsage accepts the full name or the short forms "standard" and "reduced"
func ParseTaxUsage(s string) (TaxUsage, bool) {
	switch s {
	case "GlobalStandardVAT", "standard":
		return TaxUsageGlobalStandardVAT, true
	case "GlobalReducedVAT", "reduced":
		return TaxUsageGlobalReducedVAT, true
	}
	return 0, false
}

func (u TaxUsage) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *TaxUsage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !TaxUsage(i).IsValid() {
			return fmt.Errorf("unknown TaxUsage %d", i)
		}
		*u = TaxUsage(i)
		return nil
	}
	parsed, ok := ParseTaxUsage(str)
	if !ok {
		return fmt.Errorf("unknown TaxUsage %q", str)
	}
	*u = parsed
	return nil
}

func (u TaxUsage) Value() (driver.Value, error) {
	return int64(u), nil
}

func (u *TaxUsage) Scan(value interface{}) error {
	if value == nil {
		*u = TaxUsageGlobalStandardVAT
		return nil
	}
	var n int64
	switch v := value.(type) {
	case int64:
		n = v
	case int:
		n = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into TaxUsage", value)
	}
	if !TaxUsage(n).IsValid() {
		return fmt.Errorf("unknown TaxUsage %d", n)
	}
	*u = TaxUsage(n)
	return nil
}

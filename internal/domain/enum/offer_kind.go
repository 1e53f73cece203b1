package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OfferKind discriminates the offer variants and the sales items they sell
type OfferKind int

const (
	OfferKindProduct   OfferKind = 0
	OfferKindExtra     OfferKind = 1
	OfferKindVariation OfferKind = 2
	OfferKindPromo     OfferKind = 3
)

var offerKindNames = [...]string{"Product", "Extra", "Variation", "Promo"}

func (k OfferKind) String() string {
	if int(k) < 0 || int(k) >= len(offerKindNames) {
		return "Unknown"
	}
	return offerKindNames[k]
}

// IsValid reports whether k is one of the declared variants
func (k OfferKind) IsValid() bool {
	return int(k) >= 0 && int(k) < len(offerKindNames)
}

// IsAttachment reports whether offers of this kind attach to a bill item
// instead of forming one.
func (k OfferKind) IsAttachment() bool {
	return k == OfferKindExtra || k == OfferKindVariation || k == OfferKindPromo
}

// ParseOfferKind accepts the variant name in any case
func ParseOfferKind(s string) (OfferKind, bool) {
	for i, name := range offerKindNames {
		if strings.EqualFold(s, name) {
			return OfferKind(i), true
		}
	}
	return 0, false
}

func (k OfferKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *OfferKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if !OfferKind(i).IsValid() {
			return fmt.Errorf("unknown OfferKind %d", i)
		}
		*k = OfferKind(i)
		return nil
	}
	parsed, ok := ParseOfferKind(str)
	if !ok {
		return fmt.Errorf("unknown OfferKind %q", str)
	}
	*k = parsed
	return nil
}

func (k OfferKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *OfferKind) Scan(value interface{}) error {
	if value == nil {
		*k = OfferKindProduct
		return nil
	}
	var n int64
	switch v := value.(type) {
	case int64:
		n = v
	case int:
		n = int64(v)
	default:
		return fmt.Errorf("cannot scan %T into OfferKind", value)
	}
	if !OfferKind(n).IsValid() {
		return fmt.Errorf("unknown OfferKind %d", n)
	}
	*k = OfferKind(n)
	return nil
}

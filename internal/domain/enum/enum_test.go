package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferKind_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OfferKind
		wantErr bool
	}{
		{name: "name", input: `"Extra"`, want: OfferKindExtra},
		{name: "name in lower case", input: `"promo"`, want: OfferKindPromo},
		{name: "number", input: `2`, want: OfferKindVariation},
		{name: "unknown name", input: `"Coupon"`, wantErr: true},
		{name: "number out of range", input: `7`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := OfferKindExtra
			err := json.Unmarshal([]byte(tt.input), &k)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, OfferKindExtra, k)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestOfferKind_Scan(t *testing.T) {
	var k OfferKind
	require.NoError(t, k.Scan(int64(3)))
	assert.Equal(t, OfferKindPromo, k)

	assert.Error(t, k.Scan("Promo"))
	assert.Error(t, k.Scan(int64(9)))
	assert.Equal(t, OfferKindPromo, k)

	require.NoError(t, k.Scan(nil))
	assert.Equal(t, OfferKindProduct, k)
}

func TestTaxUsage_Decode(t *testing.T) {
	var u TaxUsage
	require.NoError(t, json.Unmarshal([]byte(`"reduced"`), &u))
	assert.Equal(t, TaxUsageGlobalReducedVAT, u)

	assert.Error(t, json.Unmarshal([]byte(`"takeaway"`), &u))
	assert.Error(t, json.Unmarshal([]byte(`5`), &u))
	assert.Error(t, u.Scan([]byte("1")))
	assert.Equal(t, TaxUsageGlobalReducedVAT, u)
}

func TestUserRole_Scan(t *testing.T) {
	var r UserRole
	require.NoError(t, r.Scan([]byte("manager")))
	assert.Equal(t, UserRoleManager, r)
	assert.Error(t, r.Scan(int64(1)))
}

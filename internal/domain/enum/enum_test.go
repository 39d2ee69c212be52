package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableStatusAcceptsLegacyNames(t *testing.T) {
	var s TableStatus
	require.NoError(t, s.Scan("Ocupada"))
	assert.Equal(t, TableStatusOccupied, s)
	require.NoError(t, s.Scan([]byte("Livre")))
	assert.Equal(t, TableStatusFree, s)
	assert.Error(t, s.Scan("Reserved"))
}

func TestTableStatusJSON(t *testing.T) {
	data, err := json.Marshal(TableStatusOccupied)
	require.NoError(t, err)
	assert.JSONEq(t, `"Occupied"`, string(data))

	var s TableStatus
	require.NoError(t, json.Unmarshal([]byte(`"Free"`), &s))
	assert.Equal(t, TableStatusFree, s)
	assert.Error(t, json.Unmarshal([]byte(`7`), &s))

	v, err := TableStatusOccupied.Value()
	require.NoError(t, err)
	assert.Equal(t, "Occupied", v)
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		in   string
		want PaymentMethod
	}{
		{"Pix", PaymentMethodPix},
		{"Card", PaymentMethodCard},
		{"Cartão", PaymentMethodCard},
		{"Cash", PaymentMethodCash},
		{"Dinheiro", PaymentMethodCash},
	}
	for _, tt := range tests {
		got, err := ParsePaymentMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParsePaymentMethod("Bitcoin")
	assert.Error(t, err)
}

func TestPaymentMethodJSON(t *testing.T) {
	var m PaymentMethod
	require.NoError(t, json.Unmarshal([]byte(`"Dinheiro"`), &m))
	assert.Equal(t, PaymentMethodCash, m)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `"Cash"`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`2`), &m))
	assert.False(t, PaymentMethod(9).Valid())
	_, err = PaymentMethod(9).Value()
	assert.Error(t, err)
}

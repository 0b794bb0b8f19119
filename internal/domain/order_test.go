package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSerializationRoundTrip(t *testing.T) {
	model := "Cool Cat"
	percent := "<5.5"
	order := Order{
		ID:                   9,
		UserID:               100,
		OwnerID:              12345,
		IsActive:             true,
		MinPrice:             5,
		MaxPrice:             50,
		AmountToBuy:          2,
		GiftName:             "Plush Pepe",
		Currency:             CurrencyTON,
		ModelName:            &model,
		PercentOfTheBackdrop: &percent,
		IsOnlyTonPayment:     true,
	}

	first, err := json.Marshal(order)
	require.NoError(t, err)

	var decoded Order
	require.NoError(t, json.Unmarshal(first, &decoded))

	second, err := json.Marshal(decoded)
	require.NoError(t, err)

	assert.Equal(t, first, second, "serialize, deserialize, re-serialize must be byte-identical")
}

func TestOrderWireFieldNames(t *testing.T) {
	data, err := json.Marshal(Order{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	for _, key := range []string{
		"id", "user_id", "owner_id", "is_active", "min_price", "max_price",
		"amount_to_buy", "amount_bought", "gift_name", "currency",
		"model_name", "percent_of_the_model", "symbol_name", "percent_of_the_symbol",
		"backdrop_name", "percent_of_the_backdrop",
		"is_only_ton_payment", "should_buy_with_original_details",
	} {
		assert.Contains(t, raw, key)
	}
}

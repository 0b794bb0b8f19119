package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
	"github.com/giftdesk/giftdesk-bot/internal/flow"
)

func TestApplyOrderStepInputCoercion(t *testing.T) {
	tests := []struct {
		name  string
		step  string
		input string
		check func(t *testing.T, o domain.Order)
	}{
		{
			name:  "min price parses",
			step:  flow.StepMinPrice,
			input: "25",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, 25, o.MinPrice) },
		},
		{
			name:  "min price falls back to 1",
			step:  flow.StepMinPrice,
			input: "cheap",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, 1, o.MinPrice) },
		},
		{
			name:  "max price falls back to 100",
			step:  flow.StepMaxPrice,
			input: "a lot",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, 100, o.MaxPrice) },
		},
		{
			name:  "amount falls back to 1",
			step:  flow.StepAmountToBuy,
			input: "",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, 1, o.AmountToBuy) },
		},
		{
			name:  "owner id falls back to zero",
			step:  flow.StepOwnerID,
			input: "not-a-number",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, int64(0), o.OwnerID) },
		},
		{
			name:  "currency upper-cased verbatim",
			step:  flow.StepCurrency,
			input: "ton",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, "TON", o.Currency) },
		},
		{
			name:  "invalid currency stored as entered",
			step:  flow.StepCurrency,
			input: "doge",
			check: func(t *testing.T, o domain.Order) { assert.Equal(t, "DOGE", o.Currency) },
		},
		{
			name:  "yes token",
			step:  flow.StepIsActive,
			input: "YES",
			check: func(t *testing.T, o domain.Order) { assert.True(t, o.IsActive) },
		},
		{
			name:  "localized yes token",
			step:  flow.StepIsActive,
			input: "Так",
			check: func(t *testing.T, o domain.Order) { assert.True(t, o.IsActive) },
		},
		{
			name:  "anything else is negative",
			step:  flow.StepIsActive,
			input: "sure",
			check: func(t *testing.T, o domain.Order) { assert.False(t, o.IsActive) },
		},
		{
			name:  "percentage expression stored verbatim",
			step:  flow.StepModelValue,
			input: "<5.5",
			check: func(t *testing.T, o domain.Order) {
				require.NotNil(t, o.PercentOfTheModel)
				assert.Equal(t, "<5.5", *o.PercentOfTheModel)
				assert.Nil(t, o.ModelName)
			},
		},
		{
			name:  "skip token clears the attribute",
			step:  flow.StepSymbolValue,
			input: "SKIP",
			check: func(t *testing.T, o domain.Order) {
				assert.Nil(t, o.SymbolName)
				assert.Nil(t, o.PercentOfTheSymbol)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o domain.Order
			flow.ApplyOrderStepInput(&o, tt.step, tt.input)
			tt.check(t, o)
		})
	}
}

func TestApplyOrderEditKeepsPreviousOnParseFailure(t *testing.T) {
	o := domain.Order{MinPrice: 10, MaxPrice: 200, AmountToBuy: 5, OwnerID: 99}

	assert.True(t, flow.ApplyOrderEdit(&o, flow.FieldMinPrice, "junk"))
	assert.Equal(t, 10, o.MinPrice)

	assert.True(t, flow.ApplyOrderEdit(&o, flow.FieldMaxPrice, "junk"))
	assert.Equal(t, 200, o.MaxPrice)

	assert.True(t, flow.ApplyOrderEdit(&o, flow.FieldAmount, "junk"))
	assert.Equal(t, 5, o.AmountToBuy)

	// Owner id resets to zero instead of keeping the previous value.
	assert.True(t, flow.ApplyOrderEdit(&o, flow.FieldOwnerID, "junk"))
	assert.Equal(t, int64(0), o.OwnerID)

	assert.True(t, flow.ApplyOrderEdit(&o, flow.FieldCurrency, "ton"))
	assert.Equal(t, "TON", o.Currency)

	// Attribute fields are picker-answered, not text-answered.
	assert.False(t, flow.ApplyOrderEdit(&o, flow.FieldModel, "anything"))
}

func TestClearAttributeIdempotent(t *testing.T) {
	name := "Cool Cat"
	percent := ">2"
	o := domain.Order{ModelName: &name, PercentOfTheModel: &percent}

	for i := 0; i < 3; i++ {
		flow.ClearAttribute(&o, domain.CatalogModels)
		assert.Nil(t, o.ModelName)
		assert.Nil(t, o.PercentOfTheModel)
	}
}

func TestSetAttributeNameClearsPercent(t *testing.T) {
	percent := "<1"
	o := domain.Order{PercentOfTheBackdrop: &percent}

	flow.SetAttributeName(&o, domain.CatalogBackdrops, "Midnight")
	require.NotNil(t, o.BackdropName)
	assert.Equal(t, "Midnight", *o.BackdropName)
	assert.Nil(t, o.PercentOfTheBackdrop)
}

func TestApplyMonitoringStepInput(t *testing.T) {
	cfg := domain.MonitoringConfig{AccountInterval: 500, MaxBatches: 3}

	flow.ApplyMonitoringStepInput(&cfg, flow.StepAccountInterval, "1500")
	assert.Equal(t, 1500, cfg.AccountInterval)

	// Unparsable numbers keep the previous value.
	flow.ApplyMonitoringStepInput(&cfg, flow.StepMaxBatches, "many")
	assert.Equal(t, 3, cfg.MaxBatches)

	flow.ApplyMonitoringStepInput(&cfg, flow.StepIsActive, "так")
	assert.True(t, cfg.IsActive)
}

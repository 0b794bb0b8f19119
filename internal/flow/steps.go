package flow

import (
	"github.com/giftdesk/giftdesk-bot/internal/domain"
	"github.com/giftdesk/giftdesk-bot/internal/state"
)

// Layout names the button arrangement the prompt renderer attaches to a step
// prompt.
type Layout int

const (
	LayoutCancel Layout = iota
	LayoutSkipCancel
	LayoutYesNo
	LayoutCurrency
	LayoutTypeChoice
	LayoutPicker
)

// Step is one entry of a flow's step definition table. Pure configuration;
// the engine carries all behavior.
type Step struct {
	Name        string
	PromptKey   string
	Layout      Layout
	AcceptsText bool
	// Attr is set on *_type and *_value steps to the attribute they collect.
	Attr domain.CatalogKind
	// Catalog is the picker source for LayoutPicker steps and for the exact
	// branch of LayoutTypeChoice steps.
	Catalog domain.CatalogKind
}

// Step names, shared between the step tables and the accessor layer.
const (
	StepGiftName        = "gift_name"
	StepModelType       = "model_type"
	StepModelValue      = "model_value"
	StepSymbolType      = "symbol_type"
	StepSymbolValue     = "symbol_value"
	StepBackdropType    = "backdrop_type"
	StepBackdropValue   = "backdrop_value"
	StepMinPrice        = "min_price"
	StepMaxPrice        = "max_price"
	StepAmountToBuy     = "amount_to_buy"
	StepCurrency        = "currency"
	StepIsActive        = "is_active"
	StepOnlyTonPayment  = "is_only_ton_payment"
	StepOriginalDetails = "should_buy_original_details"
	StepOwnerID         = "owner_id"

	StepAccountInterval = "account_interval"
	StepMaxBatches      = "max_batches"
	StepAccountUserID   = "account_user_id"
	StepAccountActive   = "account_is_active"
)

// MonitoringAccountLoopIndex is the step the "add another account" loop
// rewinds to.
const MonitoringAccountLoopIndex = 4

var orderSteps = []Step{
	{Name: StepGiftName, PromptKey: "prompt.order.gift_name", Layout: LayoutPicker, Catalog: domain.CatalogGifts},
	{Name: StepModelType, PromptKey: "prompt.order.model_type", Layout: LayoutTypeChoice, Attr: domain.CatalogModels, Catalog: domain.CatalogModels},
	{Name: StepModelValue, PromptKey: "prompt.order.model_value", Layout: LayoutSkipCancel, AcceptsText: true, Attr: domain.CatalogModels, Catalog: domain.CatalogModels},
	{Name: StepSymbolType, PromptKey: "prompt.order.symbol_type", Layout: LayoutTypeChoice, Attr: domain.CatalogSymbols, Catalog: domain.CatalogSymbols},
	{Name: StepSymbolValue, PromptKey: "prompt.order.symbol_value", Layout: LayoutSkipCancel, AcceptsText: true, Attr: domain.CatalogSymbols, Catalog: domain.CatalogSymbols},
	{Name: StepBackdropType, PromptKey: "prompt.order.backdrop_type", Layout: LayoutTypeChoice, Attr: domain.CatalogBackdrops, Catalog: domain.CatalogBackdrops},
	{Name: StepBackdropValue, PromptKey: "prompt.order.backdrop_value", Layout: LayoutSkipCancel, AcceptsText: true, Attr: domain.CatalogBackdrops, Catalog: domain.CatalogBackdrops},
	{Name: StepMinPrice, PromptKey: "prompt.order.min_price", Layout: LayoutCancel, AcceptsText: true},
	{Name: StepMaxPrice, PromptKey: "prompt.order.max_price", Layout: LayoutCancel, AcceptsText: true},
	{Name: StepAmountToBuy, PromptKey: "prompt.order.amount_to_buy", Layout: LayoutCancel, AcceptsText: true},
	{Name: StepCurrency, PromptKey: "prompt.order.currency", Layout: LayoutCurrency, AcceptsText: true},
	{Name: StepIsActive, PromptKey: "prompt.order.is_active", Layout: LayoutYesNo, AcceptsText: true},
	{Name: StepOnlyTonPayment, PromptKey: "prompt.order.is_only_ton_payment", Layout: LayoutYesNo, AcceptsText: true},
	{Name: StepOriginalDetails, PromptKey: "prompt.order.should_buy_original_details", Layout: LayoutYesNo, AcceptsText: true},
	{Name: StepOwnerID, PromptKey: "prompt.order.owner_id", Layout: LayoutCancel, AcceptsText: true},
}

var monitoringSteps = []Step{
	{Name: StepGiftName, PromptKey: "prompt.monitoring.gift_name", Layout: LayoutPicker, Catalog: domain.CatalogGifts},
	{Name: StepAccountInterval, PromptKey: "prompt.monitoring.account_interval", Layout: LayoutCancel, AcceptsText: true},
	{Name: StepMaxBatches, PromptKey: "prompt.monitoring.max_batches", Layout: LayoutCancel, AcceptsText: true},
	{Name: StepIsActive, PromptKey: "prompt.monitoring.is_active", Layout: LayoutYesNo, AcceptsText: true},
	{Name: StepAccountUserID, PromptKey: "prompt.monitoring.account_user_id", Layout: LayoutCancel, AcceptsText: true},
	{Name: StepAccountActive, PromptKey: "prompt.monitoring.account_is_active", Layout: LayoutYesNo, AcceptsText: true},
}

// Steps returns the ordered step table for a flow, or nil for flows without
// one (edit flows are single-step and table-free).
func Steps(f state.Flow) []Step {
	switch f {
	case state.FlowCreateOrder:
		return orderSteps
	case state.FlowCreateMonitoring:
		return monitoringSteps
	default:
		return nil
	}
}

// StepAt looks up the step at index i of the flow's table.
func StepAt(f state.Flow, i int) (Step, bool) {
	steps := Steps(f)
	if i < 0 || i >= len(steps) {
		return Step{}, false
	}
	return steps[i], true
}

func isValueStep(name string) bool {
	return name == StepModelValue || name == StepSymbolValue || name == StepBackdropValue
}

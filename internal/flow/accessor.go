package flow

import (
	"strconv"
	"strings"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
)

// Edit-field tokens carried by edit_<field>_<id> buttons.
const (
	FieldOwnerID         = "ownerid"
	FieldModel           = "model"
	FieldSymbol          = "symbol"
	FieldBackdrop        = "backdrop"
	FieldMinPrice        = "minprice"
	FieldMaxPrice        = "maxprice"
	FieldAmount          = "amount"
	FieldCurrency        = "currency"
	FieldActive          = "active"
	FieldOnlyTonPayment  = "onlytonpayment"
	FieldOriginalDetails = "originaldetails"
)

// skipToken clears a name field when received as text, in either case.
const skipToken = "skip"

// Fallbacks applied to unparsable numeric input during creation.
const (
	defaultMinPrice    = 1
	defaultMaxPrice    = 100
	defaultAmountToBuy = 1
)

// ApplyOrderStepInput commits free-text input for the named creation step to
// the order draft. Unparsable numbers fall back to documented defaults;
// nothing here ever rejects input.
func ApplyOrderStepInput(o *domain.Order, stepName, input string) {
	input = strings.TrimSpace(input)

	switch stepName {
	case StepGiftName:
		o.GiftName = input
	case StepModelValue, StepSymbolValue, StepBackdropValue:
		applyAttributeText(o, attrForStep(stepName), input)
	case StepMinPrice:
		o.MinPrice = parseIntOr(input, defaultMinPrice)
	case StepMaxPrice:
		o.MaxPrice = parseIntOr(input, defaultMaxPrice)
	case StepAmountToBuy:
		o.AmountToBuy = parseIntOr(input, defaultAmountToBuy)
	case StepCurrency:
		o.Currency = strings.ToUpper(input)
	case StepIsActive:
		o.IsActive = ParseYesNo(input)
	case StepOnlyTonPayment:
		o.IsOnlyTonPayment = ParseYesNo(input)
	case StepOriginalDetails:
		o.ShouldBuyWithOriginalDetails = ParseYesNo(input)
	case StepOwnerID:
		o.OwnerID = parseInt64Or(input, 0)
	}
}

// ApplyOrderEdit commits free-text input for a single-field edit. Unparsable
// numbers keep the previous value, except owner id which resets to zero.
// Attribute fields (model/symbol/backdrop) are answered by picker, not text,
// and are not handled here.
func ApplyOrderEdit(o *domain.Order, field, input string) bool {
	input = strings.TrimSpace(input)

	switch field {
	case FieldOwnerID:
		o.OwnerID = parseInt64Or(input, 0)
	case FieldMinPrice:
		o.MinPrice = parseIntOr(input, o.MinPrice)
	case FieldMaxPrice:
		o.MaxPrice = parseIntOr(input, o.MaxPrice)
	case FieldAmount:
		o.AmountToBuy = parseIntOr(input, o.AmountToBuy)
	case FieldCurrency:
		o.Currency = strings.ToUpper(input)
	case FieldActive:
		o.IsActive = ParseYesNo(input)
	case FieldOnlyTonPayment:
		o.IsOnlyTonPayment = ParseYesNo(input)
	case FieldOriginalDetails:
		o.ShouldBuyWithOriginalDetails = ParseYesNo(input)
	default:
		return false
	}
	return true
}

// applyAttributeText handles the percentage branch of a *_value step: the
// skip token clears the attribute, anything else is stored verbatim as the
// similarity expression. The name is left untouched; the engine only routes
// text here while it is unset.
func applyAttributeText(o *domain.Order, attr domain.CatalogKind, input string) {
	if strings.EqualFold(input, skipToken) {
		ClearAttribute(o, attr)
		return
	}
	SetAttributePercent(o, attr, input)
}

// AttributeName returns the name pointer of the given attribute triple.
func AttributeName(o *domain.Order, attr domain.CatalogKind) *string {
	switch attr {
	case domain.CatalogModels:
		return o.ModelName
	case domain.CatalogSymbols:
		return o.SymbolName
	case domain.CatalogBackdrops:
		return o.BackdropName
	default:
		return nil
	}
}

// SetAttributeName sets the exact name and clears the percentage expression,
// keeping the name-XOR-percent invariant.
func SetAttributeName(o *domain.Order, attr domain.CatalogKind, name string) {
	switch attr {
	case domain.CatalogModels:
		o.ModelName, o.PercentOfTheModel = &name, nil
	case domain.CatalogSymbols:
		o.SymbolName, o.PercentOfTheSymbol = &name, nil
	case domain.CatalogBackdrops:
		o.BackdropName, o.PercentOfTheBackdrop = &name, nil
	}
}

// SetAttributePercent stores a similarity expression verbatim, e.g. "<5.5".
// No validation happens here; the remote API is the validating side.
func SetAttributePercent(o *domain.Order, attr domain.CatalogKind, expr string) {
	switch attr {
	case domain.CatalogModels:
		o.PercentOfTheModel = &expr
	case domain.CatalogSymbols:
		o.PercentOfTheSymbol = &expr
	case domain.CatalogBackdrops:
		o.PercentOfTheBackdrop = &expr
	}
}

// ClearAttribute removes both halves of an attribute triple.
func ClearAttribute(o *domain.Order, attr domain.CatalogKind) {
	switch attr {
	case domain.CatalogModels:
		o.ModelName, o.PercentOfTheModel = nil, nil
	case domain.CatalogSymbols:
		o.SymbolName, o.PercentOfTheSymbol = nil, nil
	case domain.CatalogBackdrops:
		o.BackdropName, o.PercentOfTheBackdrop = nil, nil
	}
}

// ApplyMonitoringStepInput commits free-text input for a monitoring creation
// step. The account sub-loop steps live in the engine because they touch
// conversation state, not the draft.
func ApplyMonitoringStepInput(m *domain.MonitoringConfig, stepName, input string) {
	input = strings.TrimSpace(input)

	switch stepName {
	case StepGiftName:
		m.GiftName = input
	case StepAccountInterval:
		m.AccountInterval = parseIntOr(input, m.AccountInterval)
	case StepMaxBatches:
		m.MaxBatches = parseIntOr(input, m.MaxBatches)
	case StepIsActive:
		m.IsActive = ParseYesNo(input)
	}
}

// ParseYesNo treats "yes" and "так" (any case) as affirmative and everything
// else as negative.
func ParseYesNo(input string) bool {
	lowered := strings.ToLower(strings.TrimSpace(input))
	return lowered == "yes" || lowered == "так"
}

func attrForStep(stepName string) domain.CatalogKind {
	switch stepName {
	case StepModelType, StepModelValue:
		return domain.CatalogModels
	case StepSymbolType, StepSymbolValue:
		return domain.CatalogSymbols
	case StepBackdropType, StepBackdropValue:
		return domain.CatalogBackdrops
	default:
		return ""
	}
}

func parseIntOr(input string, fallback int) int {
	v, err := strconv.Atoi(input)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt64Or(input string, fallback int64) int64 {
	v, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

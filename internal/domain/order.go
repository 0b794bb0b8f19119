// Package domain holds the marketplace entities exchanged with the remote API.
package domain

// Currency codes the marketplace accepts for resold gift orders. Operator
// input is stored as entered (upper-cased), so an Order may carry a value
// outside this set; the remote API is the validating side.
const (
	CurrencyStars = "STARS"
	CurrencyTON   = "TON"
	CurrencyBoth  = "BOTH"
)

// Order is a resold gift order in the marketplace API wire format. Nullable
// attribute fields are pointers: for each of model/symbol/backdrop either the
// name or the percent expression is set, never both.
type Order struct {
	ID           int    `json:"id"`
	UserID       int64  `json:"user_id"`
	OwnerID      int64  `json:"owner_id"`
	IsActive     bool   `json:"is_active"`
	MinPrice     int    `json:"min_price"`
	MaxPrice     int    `json:"max_price"`
	AmountToBuy  int    `json:"amount_to_buy"`
	AmountBought int    `json:"amount_bought"`
	GiftName     string `json:"gift_name"`
	Currency     string `json:"currency"`

	ModelName            *string `json:"model_name"`
	PercentOfTheModel    *string `json:"percent_of_the_model"`
	SymbolName           *string `json:"symbol_name"`
	PercentOfTheSymbol   *string `json:"percent_of_the_symbol"`
	BackdropName         *string `json:"backdrop_name"`
	PercentOfTheBackdrop *string `json:"percent_of_the_backdrop"`

	IsOnlyTonPayment             bool `json:"is_only_ton_payment"`
	ShouldBuyWithOriginalDetails bool `json:"should_buy_with_original_details"`
}

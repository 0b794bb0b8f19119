package domain

// CatalogKind identifies one of the selectable candidate lists the
// marketplace exposes. Models, symbols and backdrops are scoped to a gift.
type CatalogKind string

const (
	CatalogGifts     CatalogKind = "gift"
	CatalogModels    CatalogKind = "model"
	CatalogSymbols   CatalogKind = "symbol"
	CatalogBackdrops CatalogKind = "backdrop"
)

// CatalogItem is one selectable candidate.
type CatalogItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Package flow implements the multi-step conversation engine: the per-user
// state machine that walks an operator through ordered data-collection steps,
// persists partial progress between messages and submits the assembled draft
// to the marketplace API.
package flow

import (
	"strconv"
	"strings"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
)

// ActionKind tags a parsed inline-button payload. Payloads are decoded once
// at the dispatch boundary; the engine never inspects raw callback strings.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionCreateOrder
	ActionCreateMonitoring
	ActionCancelFlow
	ActionBackToList
	ActionSkipField
	ActionAnswerYes
	ActionAnswerNo
	ActionCurrency
	ActionPickGift
	ActionPickAttribute
	ActionPage
	ActionCurrentPage
	ActionAttributeType
	ActionViewEntity
	ActionUpdateEntity
	ActionEditField
	ActionDeleteEntity
	ActionFinishEdit
	ActionAddAccountYes
	ActionAddAccountNo
	ActionConfirmMonitoring
	ActionViewAllEntities
)

// Page target for the admin view-all list; picker pages use the catalog kinds.
const PageTargetAll = "all"

// Attribute type choices carried by modeltype_/symboltype_/backdroptype_ buttons.
const (
	ChoiceExact      = "exact"
	ChoicePercentage = "percentage"
	ChoiceSkip       = "skip"
)

// Action is the decoded form of a callback payload. Only the fields relevant
// to the Kind are populated.
type Action struct {
	Kind     ActionKind
	Page     int
	EntityID int
	GiftID   int64
	Name     string             // picked item name, or currency code
	Field    string             // edit-field token (edit_<field>_<id>)
	Attr     domain.CatalogKind // model/symbol/backdrop attribute
	Target   string             // page target: gift|model|symbol|backdrop|all
	Choice   string             // exact|percentage|skip
}

// ParseAction decodes a raw callback payload. The second return value is
// false for payloads outside the known grammar.
func ParseAction(data string) (Action, bool) {
	data = strings.TrimSpace(data)

	switch data {
	case "create_order":
		return Action{Kind: ActionCreateOrder}, true
	case "create_monitoring":
		return Action{Kind: ActionCreateMonitoring}, true
	case "cancel_flow":
		return Action{Kind: ActionCancelFlow}, true
	case "back_to_list":
		return Action{Kind: ActionBackToList}, true
	case "skip_field":
		return Action{Kind: ActionSkipField}, true
	case "answer_yes":
		return Action{Kind: ActionAnswerYes}, true
	case "answer_no":
		return Action{Kind: ActionAnswerNo}, true
	case "current_page":
		return Action{Kind: ActionCurrentPage}, true
	case "add_account_yes":
		return Action{Kind: ActionAddAccountYes}, true
	case "add_account_no":
		return Action{Kind: ActionAddAccountNo}, true
	case "confirm_monitoring":
		return Action{Kind: ActionConfirmMonitoring}, true
	case "view_all_entities":
		return Action{Kind: ActionViewAllEntities}, true
	}

	// Longer prefixes first: modelpage_/modeltype_ shadow model_, giftpage_
	// shadows gift_.
	for _, target := range []string{"gift", "model", "symbol", "backdrop", PageTargetAll} {
		if rest, ok := strings.CutPrefix(data, target+"page_"); ok {
			page, err := strconv.Atoi(rest)
			if err != nil {
				return Action{}, false
			}
			return Action{Kind: ActionPage, Target: target, Page: page}, true
		}
	}

	for _, attr := range []domain.CatalogKind{domain.CatalogModels, domain.CatalogSymbols, domain.CatalogBackdrops} {
		if choice, ok := strings.CutPrefix(data, string(attr)+"type_"); ok {
			if choice != ChoiceExact && choice != ChoicePercentage && choice != ChoiceSkip {
				return Action{}, false
			}
			return Action{Kind: ActionAttributeType, Attr: attr, Choice: choice}, true
		}
	}

	if rest, ok := strings.CutPrefix(data, "gift_"); ok {
		// gift_<id>_<name>; the name may itself contain underscores.
		idPart, name, found := strings.Cut(rest, "_")
		if !found {
			return Action{}, false
		}
		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: ActionPickGift, GiftID: id, Name: name}, true
	}

	for _, attr := range []domain.CatalogKind{domain.CatalogModels, domain.CatalogSymbols, domain.CatalogBackdrops} {
		if name, ok := strings.CutPrefix(data, string(attr)+"_"); ok {
			return Action{Kind: ActionPickAttribute, Attr: attr, Name: name}, true
		}
	}

	if code, ok := strings.CutPrefix(data, "currency_"); ok {
		return Action{Kind: ActionCurrency, Name: code}, true
	}

	if rest, ok := strings.CutPrefix(data, "finish_edit_"); ok {
		return entityAction(ActionFinishEdit, rest)
	}
	if rest, ok := strings.CutPrefix(data, "edit_"); ok {
		// edit_<field>_<id>; field tokens carry no underscores, but split on
		// the last one to stay safe.
		sep := strings.LastIndex(rest, "_")
		if sep <= 0 {
			return Action{}, false
		}
		id, err := strconv.Atoi(rest[sep+1:])
		if err != nil {
			return Action{}, false
		}
		return Action{Kind: ActionEditField, Field: rest[:sep], EntityID: id}, true
	}
	if rest, ok := strings.CutPrefix(data, "entity_"); ok {
		return entityAction(ActionViewEntity, rest)
	}
	if rest, ok := strings.CutPrefix(data, "update_"); ok {
		return entityAction(ActionUpdateEntity, rest)
	}
	if rest, ok := strings.CutPrefix(data, "delete_"); ok {
		return entityAction(ActionDeleteEntity, rest)
	}

	return Action{}, false
}

func entityAction(kind ActionKind, rest string) (Action, bool) {
	id, err := strconv.Atoi(rest)
	if err != nil {
		return Action{}, false
	}
	return Action{Kind: kind, EntityID: id}, true
}

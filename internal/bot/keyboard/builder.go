package keyboard

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
	"github.com/giftdesk/giftdesk-bot/internal/flow"
	"github.com/giftdesk/giftdesk-bot/internal/i18n"
)

const pickerItemsPerRow = 2

// Builder creates the inline keyboards attached to prompts.
type Builder struct {
	t   i18n.Translator
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(t i18n.Translator, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{t: t, log: log}
}

// MainMenu builds the idle state menu. The view-all button only shows for
// the admin operator.
func (b *Builder) MainMenu(admin bool) *telebot.ReplyMarkup {
	rows := [][]telebot.InlineButton{
		{{Text: b.t.T("btn.create_order"), Data: "create_order"}},
		{{Text: b.t.T("btn.create_monitoring"), Data: "create_monitoring"}},
		{{Text: b.t.T("btn.my_orders"), Data: "back_to_list"}},
	}
	if admin {
		rows = append(rows, []telebot.InlineButton{
			{Text: b.t.T("btn.view_all"), Data: "view_all_entities"},
		})
	}

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = rows
	return markup
}

// Cancel builds a single cancel button.
func (b *Builder) Cancel() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{b.cancelRow()}
	return markup
}

// SkipCancel builds skip and cancel buttons.
func (b *Builder) SkipCancel() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{b.skipCancelRow()}
	return markup
}

// YesNo builds yes/no buttons plus cancel.
func (b *Builder) YesNo() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: b.t.T("btn.yes"), Data: "answer_yes"},
			{Text: b.t.T("btn.no"), Data: "answer_no"},
		},
		b.cancelRow(),
	}
	return markup
}

// Currency builds the currency choice buttons plus cancel.
func (b *Builder) Currency() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: b.t.T("btn.currency.stars"), Data: "currency_" + domain.CurrencyStars},
			{Text: b.t.T("btn.currency.ton"), Data: "currency_" + domain.CurrencyTON},
			{Text: b.t.T("btn.currency.both"), Data: "currency_" + domain.CurrencyBoth},
		},
		b.cancelRow(),
	}
	return markup
}

// TypeChoice builds the exact/percentage/skip buttons for an attribute step.
func (b *Builder) TypeChoice(attr domain.CatalogKind) *telebot.ReplyMarkup {
	prefix := string(attr) + "type_"

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: b.t.T("btn.exact"), Data: prefix + flow.ChoiceExact},
			{Text: b.t.T("btn.percentage"), Data: prefix + flow.ChoicePercentage},
			{Text: b.t.T("btn.skip"), Data: prefix + flow.ChoiceSkip},
		},
		b.cancelRow(),
	}
	return markup
}

// Picker builds a paged candidate keyboard. A page with no candidates still
// offers skip and cancel.
func (b *Builder) Picker(catalog domain.CatalogKind, items []domain.CatalogItem, page, totalPages int) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton

	row := make([]telebot.InlineButton, 0, pickerItemsPerRow)
	for _, item := range items {
		payload, err := itemCallback(catalog, item)
		if err != nil {
			b.log.Warn("candidate name does not fit callback payload, skipped",
				slog.String("catalog", string(catalog)), slog.String("name", item.Name))
			continue
		}

		row = append(row, telebot.InlineButton{Text: item.Name, Data: payload})
		if len(row) == pickerItemsPerRow {
			rows = append(rows, row)
			row = make([]telebot.InlineButton, 0, pickerItemsPerRow)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	if totalPages > 1 {
		rows = append(rows, PaginationRow(string(catalog), page, totalPages))
	}
	rows = append(rows, b.skipCancelRow())

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = rows
	return markup
}

// AddAccount builds the "add another account?" buttons.
func (b *Builder) AddAccount() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: b.t.T("btn.add_account_yes"), Data: "add_account_yes"},
			{Text: b.t.T("btn.add_account_no"), Data: "add_account_no"},
		},
		b.cancelRow(),
	}
	return markup
}

// ConfirmMonitoring builds the confirmation summary buttons.
func (b *Builder) ConfirmMonitoring() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{{Text: b.t.T("btn.confirm"), Data: "confirm_monitoring"}},
		b.cancelRow(),
	}
	return markup
}

// EntityList builds one row per order plus a pagination row.
func (b *Builder) EntityList(orders []domain.Order, page, totalPages int) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton
	for _, order := range orders {
		status := "🔴"
		if order.IsActive {
			status = "🟢"
		}
		rows = append(rows, []telebot.InlineButton{{
			Text: fmt.Sprintf("%s #%d %s", status, order.ID, order.GiftName),
			Data: fmt.Sprintf("entity_%d", order.ID),
		}})
	}

	if totalPages > 1 {
		rows = append(rows, PaginationRow(flow.PageTargetAll, page, totalPages))
	}
	rows = append(rows, []telebot.InlineButton{
		{Text: b.t.T("btn.menu"), Data: "cancel_flow"},
	})

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = rows
	return markup
}

// EntityDetail builds the update/delete/back buttons for a record view.
func (b *Builder) EntityDetail(entityID int) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{Text: b.t.T("btn.update"), Data: fmt.Sprintf("update_%d", entityID)},
			{Text: b.t.T("btn.delete"), Data: fmt.Sprintf("delete_%d", entityID)},
		},
		{{Text: b.t.T("btn.back"), Data: "back_to_list"}},
	}
	return markup
}

// editMenuFields fixes the button order of the edit menu.
var editMenuFields = []string{
	flow.FieldModel,
	flow.FieldSymbol,
	flow.FieldBackdrop,
	flow.FieldMinPrice,
	flow.FieldMaxPrice,
	flow.FieldAmount,
	flow.FieldCurrency,
	flow.FieldActive,
	flow.FieldOnlyTonPayment,
	flow.FieldOriginalDetails,
	flow.FieldOwnerID,
}

// EditMenu builds one button per editable field, two per row, plus a finish
// button.
func (b *Builder) EditMenu(entityID int) *telebot.ReplyMarkup {
	var rows [][]telebot.InlineButton

	row := make([]telebot.InlineButton, 0, 2)
	for _, field := range editMenuFields {
		row = append(row, telebot.InlineButton{
			Text: b.t.T("btn.edit." + field),
			Data: EditPayload(field, entityID),
		})
		if len(row) == 2 {
			rows = append(rows, row)
			row = make([]telebot.InlineButton, 0, 2)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []telebot.InlineButton{
		{Text: b.t.T("btn.finish_edit"), Data: fmt.Sprintf("finish_edit_%d", entityID)},
	})

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = rows
	return markup
}

// PaginationRow returns prev, current and next buttons for a zero-based
// page. The current-page button is a no-op marker.
func PaginationRow(target string, page, totalPages int) []telebot.InlineButton {
	row := make([]telebot.InlineButton, 0, 3)

	if page > 0 {
		row = append(row, telebot.InlineButton{Text: "◀️", Data: PagePayload(target, page-1)})
	}

	row = append(row, telebot.InlineButton{
		Text: fmt.Sprintf("📄 %d/%d", page+1, totalPages),
		Data: "current_page",
	})

	if page < totalPages-1 {
		row = append(row, telebot.InlineButton{Text: "▶️", Data: PagePayload(target, page+1)})
	}

	return row
}

func (b *Builder) cancelRow() []telebot.InlineButton {
	return []telebot.InlineButton{{Text: b.t.T("btn.cancel"), Data: "cancel_flow"}}
}

func (b *Builder) skipCancelRow() []telebot.InlineButton {
	return []telebot.InlineButton{
		{Text: b.t.T("btn.skip"), Data: "skip_field"},
		{Text: b.t.T("btn.cancel"), Data: "cancel_flow"},
	}
}

func itemCallback(catalog domain.CatalogKind, item domain.CatalogItem) (string, error) {
	if catalog == domain.CatalogGifts {
		return GiftPayload(item.ID, item.Name)
	}
	return ItemPayload(catalog, item.Name)
}

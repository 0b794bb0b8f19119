package keyboard_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftdesk/giftdesk-bot/internal/bot/keyboard"
	"github.com/giftdesk/giftdesk-bot/internal/domain"
)

type mockTranslator struct {
	translations map[string]string
}

func (m *mockTranslator) T(key string) string {
	if val, ok := m.translations[key]; ok {
		return val
	}
	return key
}

func (m *mockTranslator) Lang() string { return "en" }

func newTestBuilder() *keyboard.Builder {
	return keyboard.NewBuilder(&mockTranslator{}, nil)
}

func TestMainMenu(t *testing.T) {
	b := newTestBuilder()

	markup := b.MainMenu(false)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "create_order", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "create_monitoring", markup.InlineKeyboard[1][0].Data)
	assert.Equal(t, "back_to_list", markup.InlineKeyboard[2][0].Data)

	admin := b.MainMenu(true)
	require.Len(t, admin.InlineKeyboard, 4)
	assert.Equal(t, "view_all_entities", admin.InlineKeyboard[3][0].Data)
}

func TestTypeChoice(t *testing.T) {
	markup := newTestBuilder().TypeChoice(domain.CatalogModels)

	require.Len(t, markup.InlineKeyboard, 2)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "modeltype_exact", row[0].Data)
	assert.Equal(t, "modeltype_percentage", row[1].Data)
	assert.Equal(t, "modeltype_skip", row[2].Data)
	assert.Equal(t, "cancel_flow", markup.InlineKeyboard[1][0].Data)
}

func TestPicker(t *testing.T) {
	items := []domain.CatalogItem{
		{ID: 1, Name: "Cool Cat"},
		{ID: 2, Name: "Sad Cat"},
		{ID: 3, Name: "Top Hat"},
	}

	markup := newTestBuilder().Picker(domain.CatalogModels, items, 0, 3)

	// 2 candidate rows, pagination row, skip/cancel row.
	require.Len(t, markup.InlineKeyboard, 4)
	assert.Len(t, markup.InlineKeyboard[0], 2)
	assert.Len(t, markup.InlineKeyboard[1], 1)
	assert.Equal(t, "model_Cool Cat", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "model_Top Hat", markup.InlineKeyboard[1][0].Data)

	last := markup.InlineKeyboard[3]
	require.Len(t, last, 2)
	assert.Equal(t, "skip_field", last[0].Data)
	assert.Equal(t, "cancel_flow", last[1].Data)
}

func TestPickerSkipsOversizedNames(t *testing.T) {
	items := []domain.CatalogItem{
		{ID: 1, Name: strings.Repeat("x", keyboard.CallbackDataLimitBytes)},
		{ID: 2, Name: "Fits"},
	}

	markup := newTestBuilder().Picker(domain.CatalogModels, items, 0, 1)

	// Only the fitting candidate plus the skip/cancel row.
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "model_Fits", markup.InlineKeyboard[0][0].Data)
}

func TestPickerEmptyPageStillOffersSkip(t *testing.T) {
	markup := newTestBuilder().Picker(domain.CatalogGifts, nil, 0, 1)

	require.Len(t, markup.InlineKeyboard, 1)
	assert.Equal(t, "skip_field", markup.InlineKeyboard[0][0].Data)
}

func TestEntityList(t *testing.T) {
	orders := []domain.Order{
		{ID: 3, GiftName: "Plush Pepe", IsActive: true},
		{ID: 1, GiftName: "Lol Pop"},
	}

	markup := newTestBuilder().EntityList(orders, 1, 2)

	require.Len(t, markup.InlineKeyboard, 4)
	assert.Equal(t, "🟢 #3 Plush Pepe", markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "entity_3", markup.InlineKeyboard[0][0].Data)
	assert.Equal(t, "🔴 #1 Lol Pop", markup.InlineKeyboard[1][0].Text)
	assert.Equal(t, "cancel_flow", markup.InlineKeyboard[3][0].Data)
}

func TestEditMenu(t *testing.T) {
	markup := newTestBuilder().EditMenu(42)

	rows := markup.InlineKeyboard
	require.NotEmpty(t, rows)

	last := rows[len(rows)-1]
	require.Len(t, last, 1)
	assert.Equal(t, "finish_edit_42", last[0].Data)

	assert.Equal(t, "edit_model_42", rows[0][0].Data)
	assert.Equal(t, "edit_symbol_42", rows[0][1].Data)
}

func TestPaginationRow(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		total    int
		wantData []string
	}{
		{
			name:     "first page",
			page:     0,
			total:    3,
			wantData: []string{"current_page", "giftpage_1"},
		},
		{
			name:     "middle page",
			page:     1,
			total:    3,
			wantData: []string{"giftpage_0", "current_page", "giftpage_2"},
		},
		{
			name:     "last page",
			page:     2,
			total:    3,
			wantData: []string{"giftpage_1", "current_page"},
		},
		{
			name:     "single page",
			page:     0,
			total:    1,
			wantData: []string{"current_page"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := keyboard.PaginationRow("gift", tt.page, tt.total)
			require.Len(t, row, len(tt.wantData))
			for i, want := range tt.wantData {
				assert.Equal(t, want, row[i].Data)
			}
		})
	}
}

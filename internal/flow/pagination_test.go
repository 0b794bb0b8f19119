package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giftdesk/giftdesk-bot/internal/flow"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		size      int
		page      int
		wantStart int
		wantEnd   int
		wantPage  int
		wantTotal int
	}{
		{name: "first page", count: 23, size: 10, page: 0, wantStart: 0, wantEnd: 10, wantPage: 0, wantTotal: 3},
		{name: "middle page", count: 23, size: 10, page: 1, wantStart: 10, wantEnd: 20, wantPage: 1, wantTotal: 3},
		{name: "last partial page", count: 23, size: 10, page: 2, wantStart: 20, wantEnd: 23, wantPage: 2, wantTotal: 3},
		{name: "negative page clamps to zero", count: 23, size: 10, page: -1, wantStart: 0, wantEnd: 10, wantPage: 0, wantTotal: 3},
		{name: "past the end clamps to last", count: 23, size: 10, page: 3, wantStart: 20, wantEnd: 23, wantPage: 2, wantTotal: 3},
		{name: "way past the end", count: 23, size: 10, page: 99, wantStart: 20, wantEnd: 23, wantPage: 2, wantTotal: 3},
		{name: "empty list has one empty page", count: 0, size: 10, page: 0, wantStart: 0, wantEnd: 0, wantPage: 0, wantTotal: 1},
		{name: "exact multiple", count: 30, size: 15, page: 1, wantStart: 15, wantEnd: 30, wantPage: 1, wantTotal: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, clamped, total := flow.PageWindow(tt.count, tt.size, tt.page)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantPage, clamped)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

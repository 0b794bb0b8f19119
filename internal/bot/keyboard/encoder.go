package keyboard

import (
	"fmt"
	"strings"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
)

// CallbackDataLimitBytes is the Telegram hard cap on callback payloads.
const CallbackDataLimitBytes = 64

// Encode joins payload parts with underscores, enforcing the size cap.
func Encode(parts ...string) (string, error) {
	payload := strings.Join(parts, "_")
	if len(payload) > CallbackDataLimitBytes {
		return "", fmt.Errorf("callback data exceeds %d byte limit: got %d", CallbackDataLimitBytes, len(payload))
	}

	return payload, nil
}

// GiftPayload encodes a gift pick as gift_<id>_<name>.
func GiftPayload(id int64, name string) (string, error) {
	return Encode("gift", fmt.Sprintf("%d", id), name)
}

// ItemPayload encodes an attribute pick as <kind>_<name>.
func ItemPayload(kind domain.CatalogKind, name string) (string, error) {
	return Encode(string(kind), name)
}

// PagePayload encodes a pagination request as <target>page_<n>.
func PagePayload(target string, page int) string {
	return fmt.Sprintf("%spage_%d", target, page)
}

// EditPayload encodes a field edit as edit_<field>_<id>.
func EditPayload(field string, entityID int) string {
	return fmt.Sprintf("edit_%s_%d", field, entityID)
}

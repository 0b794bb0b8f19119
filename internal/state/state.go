package state

import (
	"encoding/json"
	"time"
)

// Flow tags which step table is active for a conversation. The zero value
// means no conversation is in progress.
type Flow string

const (
	FlowNone              Flow = ""
	FlowCreateOrder       Flow = "create_order"
	FlowCreateMonitoring  Flow = "create_monitoring"
	FlowEditField         Flow = "edit_field"
	FlowSelectFieldUpdate Flow = "select_field_update"
)

// UserState is the persisted conversation state row, at most one per
// operator. Draft is the serialized in-progress record, opaque to storage
// and round-tripped by the flow engine on every transition.
type UserState struct {
	UserID    int64           `json:"user_id"`
	Flow      Flow            `json:"flow"`
	EditField string          `json:"edit_field,omitempty"`
	StepIndex int             `json:"step_index"`
	Draft     json.RawMessage `json:"draft,omitempty"`

	// EntityID points at the marketplace record being edited, when any.
	EntityID int `json:"entity_id,omitempty"`
	// LastPromptID is the most recent interactive prompt, retracted once
	// the operator answers. At most one outstanding prompt per user.
	LastPromptID int `json:"last_prompt_id,omitempty"`
	// SelectedGiftID scopes model/symbol/backdrop pickers to a gift.
	SelectedGiftID *int64 `json:"selected_gift_id,omitempty"`
	// PendingAccountID holds the first half of an account entry while the
	// monitoring sub-loop collects its active flag.
	PendingAccountID *int64 `json:"pending_account_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

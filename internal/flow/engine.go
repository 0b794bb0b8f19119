package flow

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
	"github.com/giftdesk/giftdesk-bot/internal/state"
)

// Marketplace is the slice of the remote API the engine consumes.
type Marketplace interface {
	Options(ctx context.Context, kind domain.CatalogKind, giftID int64) ([]domain.CatalogItem, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	UpdateOrder(ctx context.Context, id int, order *domain.Order) error
	DeleteOrder(ctx context.Context, id int) error
	OrderByID(ctx context.Context, id int) (*domain.Order, error)
	OrdersByOwner(ctx context.Context, ownerID int64) ([]domain.Order, error)
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
	CreateMonitoringConfig(ctx context.Context, cfg *domain.MonitoringConfig) error
}

// PromptKind selects the renderer template and keyboard for a Prompt.
type PromptKind int

const (
	PromptMainMenu PromptKind = iota
	PromptStep
	PromptPicker
	PromptAddAccount
	PromptMonitoringSummary
	PromptEntityList
	PromptEntityDetail
	PromptEditMenu
)

// Prompt is the renderer-facing description of one outgoing message. Only
// the fields relevant to the Kind are populated.
type Prompt struct {
	Kind PromptKind
	// Key overrides Step.PromptKey for prompts outside the step tables.
	Key  string
	Step Step

	Items      []domain.CatalogItem
	Catalog    domain.CatalogKind
	Page       int
	TotalPages int
	PageTarget string

	Order      *domain.Order
	Orders     []domain.Order
	Monitoring *domain.MonitoringConfig
	EntityID   int
	AdminView  bool
}

// Prompter renders prompts and transient notices. Prompt returns the sent
// message id so the engine can retract it later; Retract is best-effort.
type Prompter interface {
	Prompt(ctx context.Context, userID int64, p Prompt) (int, error)
	Notice(ctx context.Context, userID int64, key string, ttl time.Duration) error
	Retract(ctx context.Context, userID int64, messageID int)
}

// Transient notice lifetimes.
const (
	warningNoticeTTL = 2 * time.Second
	statusNoticeTTL  = time.Second
)

// Engine drives the per-user conversation state machine. The dispatcher
// delivers one user's events sequentially; the engine itself holds no
// per-user locks.
type Engine struct {
	store   state.Storage
	market  Marketplace
	prompts Prompter
	log     *slog.Logger
	adminID int64
}

// New constructs the flow engine. adminID unlocks the view-all-active list.
func New(store state.Storage, market Marketplace, prompts Prompter, log *slog.Logger, adminID int64) *Engine {
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		store:   store,
		market:  market,
		prompts: prompts,
		log:     log,
		adminID: adminID,
	}
}

// Start forces the conversation to idle and shows the main menu. Bound to
// the /start command.
func (e *Engine) Start(ctx context.Context, userID int64) error {
	st, err := e.loadState(ctx, userID)
	if err != nil {
		return err
	}
	return e.clearAndMenu(ctx, userID, st)
}

// HandleText routes a free-text message into the active flow. Outside a
// flow, text just re-surfaces the main menu.
func (e *Engine) HandleText(ctx context.Context, userID int64, text string) error {
	st, err := e.loadState(ctx, userID)
	if err != nil {
		return err
	}
	if st == nil || st.Flow == state.FlowNone {
		return e.showMainMenu(ctx, userID)
	}

	switch st.Flow {
	case state.FlowCreateOrder:
		return e.orderText(ctx, st, text)
	case state.FlowCreateMonitoring:
		return e.monitoringText(ctx, st, text)
	case state.FlowEditField:
		return e.editText(ctx, st, text)
	default:
		// select_field_update waits for a button, not text.
		return nil
	}
}

// HandleAction routes a decoded button press.
func (e *Engine) HandleAction(ctx context.Context, userID int64, act Action) error {
	st, err := e.loadState(ctx, userID)
	if err != nil {
		return err
	}

	switch act.Kind {
	case ActionCreateOrder:
		return e.beginOrder(ctx, userID, st)
	case ActionCreateMonitoring:
		return e.beginMonitoring(ctx, userID, st)
	case ActionCancelFlow:
		return e.clearAndMenu(ctx, userID, st)
	case ActionBackToList:
		if st != nil {
			e.retract(ctx, st)
			if err := e.store.ClearState(ctx, userID); err != nil {
				return err
			}
		}
		return e.showOwnList(ctx, userID, 0)
	case ActionSkipField:
		return e.skipField(ctx, st)
	case ActionAnswerYes:
		return e.answer(ctx, st, "yes")
	case ActionAnswerNo:
		return e.answer(ctx, st, "no")
	case ActionCurrency:
		return e.answer(ctx, st, act.Name)
	case ActionAttributeType:
		return e.attributeType(ctx, st, act)
	case ActionPickGift:
		return e.pickGift(ctx, st, act)
	case ActionPickAttribute:
		return e.pickAttribute(ctx, st, act)
	case ActionPage:
		return e.turnPage(ctx, userID, st, act)
	case ActionCurrentPage:
		return nil
	case ActionViewEntity:
		return e.showDetail(ctx, userID, act.EntityID)
	case ActionUpdateEntity:
		return e.beginEditMenu(ctx, userID, act.EntityID)
	case ActionEditField:
		return e.beginFieldEdit(ctx, userID, st, act)
	case ActionDeleteEntity:
		return e.deleteEntity(ctx, userID, st, act.EntityID)
	case ActionFinishEdit:
		return e.clearAndMenu(ctx, userID, st)
	case ActionAddAccountYes:
		return e.addAnotherAccount(ctx, st)
	case ActionAddAccountNo:
		return e.reviewMonitoring(ctx, st)
	case ActionConfirmMonitoring:
		return e.submitMonitoring(ctx, st)
	case ActionViewAllEntities:
		if userID != e.adminID {
			return nil
		}
		return e.showAdminList(ctx, userID, 0)
	default:
		return nil
	}
}

// --- flow starts -----------------------------------------------------------

func (e *Engine) beginOrder(ctx context.Context, userID int64, prev *state.UserState) error {
	draft, err := json.Marshal(domain.Order{UserID: userID})
	if err != nil {
		return err
	}

	if prev != nil {
		e.retract(ctx, prev)
	}

	st := &state.UserState{UserID: userID, Flow: state.FlowCreateOrder, Draft: draft}
	return e.askCurrent(ctx, st)
}

func (e *Engine) beginMonitoring(ctx context.Context, userID int64, prev *state.UserState) error {
	draft, err := json.Marshal(domain.MonitoringConfig{})
	if err != nil {
		return err
	}

	if prev != nil {
		e.retract(ctx, prev)
	}

	st := &state.UserState{UserID: userID, Flow: state.FlowCreateMonitoring, Draft: draft}
	return e.askCurrent(ctx, st)
}

// --- text handlers ---------------------------------------------------------

func (e *Engine) orderText(ctx context.Context, st *state.UserState, text string) error {
	step, ok := StepAt(st.Flow, st.StepIndex)
	if !ok {
		return e.finalizeOrder(ctx, st)
	}
	if step.Name == StepGiftName {
		return e.notice(ctx, st.UserID, "notice.gift_picker_only", warningNoticeTTL)
	}
	if !step.AcceptsText {
		return nil
	}

	var order domain.Order
	if !e.decodeDraft(st, &order) {
		return nil
	}

	// Exact-pick already filled the name; the value step is consumed without
	// looking at the text. Observed behavior of the original flow, kept as-is.
	if isValueStep(step.Name) && AttributeName(&order, step.Attr) != nil {
		st.StepIndex++
		return e.askCurrent(ctx, st)
	}

	ApplyOrderStepInput(&order, step.Name, text)
	if !e.encodeDraft(st, &order) {
		return nil
	}
	st.StepIndex++
	recordStep(st.Flow, step.Name)

	return e.askCurrent(ctx, st)
}

func (e *Engine) monitoringText(ctx context.Context, st *state.UserState, text string) error {
	step, ok := StepAt(st.Flow, st.StepIndex)
	if !ok {
		return e.promptAddAccount(ctx, st)
	}
	if step.Name == StepGiftName {
		return e.notice(ctx, st.UserID, "notice.gift_picker_only", warningNoticeTTL)
	}
	if !step.AcceptsText {
		return nil
	}

	switch step.Name {
	case StepAccountUserID:
		id := parseInt64Or(text, 0)
		st.PendingAccountID = &id
		st.StepIndex++
		recordStep(st.Flow, step.Name)
		return e.askCurrent(ctx, st)
	case StepAccountActive:
		return e.commitAccount(ctx, st, ParseYesNo(text))
	default:
		var cfg domain.MonitoringConfig
		if !e.decodeDraft(st, &cfg) {
			return nil
		}
		ApplyMonitoringStepInput(&cfg, step.Name, text)
		if !e.encodeDraft(st, &cfg) {
			return nil
		}
		st.StepIndex++
		recordStep(st.Flow, step.Name)
		return e.askCurrent(ctx, st)
	}
}

func (e *Engine) editText(ctx context.Context, st *state.UserState, text string) error {
	var order domain.Order
	if !e.decodeDraft(st, &order) {
		return nil
	}
	if !ApplyOrderEdit(&order, st.EditField, text) {
		return nil
	}
	return e.persistEdit(ctx, st, &order)
}

// answer feeds a canonical button token (yes/no/currency code) through the
// same path as typed text.
func (e *Engine) answer(ctx context.Context, st *state.UserState, token string) error {
	if st == nil {
		return nil
	}

	switch st.Flow {
	case state.FlowCreateOrder:
		return e.orderText(ctx, st, token)
	case state.FlowCreateMonitoring:
		return e.monitoringText(ctx, st, token)
	case state.FlowEditField:
		return e.editText(ctx, st, token)
	default:
		return nil
	}
}

// --- button handlers -------------------------------------------------------

func (e *Engine) skipField(ctx context.Context, st *state.UserState) error {
	if st == nil {
		return nil
	}
	step, ok := StepAt(st.Flow, st.StepIndex)
	if !ok {
		return nil
	}

	if st.Flow == state.FlowCreateOrder && isValueStep(step.Name) {
		var order domain.Order
		if !e.decodeDraft(st, &order) {
			return nil
		}
		ClearAttribute(&order, step.Attr)
		if !e.encodeDraft(st, &order) {
			return nil
		}
	}

	st.StepIndex++
	recordStep(st.Flow, step.Name)
	return e.askCurrent(ctx, st)
}

func (e *Engine) attributeType(ctx context.Context, st *state.UserState, act Action) error {
	if st == nil || st.Flow != state.FlowCreateOrder {
		return nil
	}
	step, ok := StepAt(st.Flow, st.StepIndex)
	if !ok || step.Layout != LayoutTypeChoice || step.Attr != act.Attr {
		return nil
	}

	switch act.Choice {
	case ChoiceSkip:
		var order domain.Order
		if !e.decodeDraft(st, &order) {
			return nil
		}
		ClearAttribute(&order, act.Attr)
		if !e.encodeDraft(st, &order) {
			return nil
		}
		st.StepIndex += 2
		recordStep(st.Flow, step.Name)
		return e.askCurrent(ctx, st)
	case ChoiceExact:
		if st.SelectedGiftID == nil {
			return nil
		}
		st.StepIndex++
		recordStep(st.Flow, step.Name)
		valueStep, _ := StepAt(st.Flow, st.StepIndex)
		return e.showPicker(ctx, st, valueStep.PromptKey, act.Attr, 0)
	case ChoicePercentage:
		st.StepIndex++
		recordStep(st.Flow, step.Name)
		valueStep, ok := StepAt(st.Flow, st.StepIndex)
		if !ok {
			return nil
		}
		return e.sendPrompt(ctx, st, Prompt{Kind: PromptStep, Step: valueStep})
	default:
		return nil
	}
}

func (e *Engine) pickGift(ctx context.Context, st *state.UserState, act Action) error {
	if st == nil {
		return nil
	}
	step, ok := StepAt(st.Flow, st.StepIndex)
	if !ok || step.Name != StepGiftName {
		return nil
	}

	switch st.Flow {
	case state.FlowCreateOrder:
		var order domain.Order
		if !e.decodeDraft(st, &order) {
			return nil
		}
		order.GiftName = act.Name
		if !e.encodeDraft(st, &order) {
			return nil
		}
	case state.FlowCreateMonitoring:
		var cfg domain.MonitoringConfig
		if !e.decodeDraft(st, &cfg) {
			return nil
		}
		cfg.GiftName = act.Name
		if !e.encodeDraft(st, &cfg) {
			return nil
		}
	default:
		return nil
	}

	giftID := act.GiftID
	st.SelectedGiftID = &giftID
	st.StepIndex++
	recordStep(st.Flow, step.Name)
	return e.askCurrent(ctx, st)
}

func (e *Engine) pickAttribute(ctx context.Context, st *state.UserState, act Action) error {
	if st == nil {
		return nil
	}

	if st.Flow == state.FlowEditField {
		var order domain.Order
		if !e.decodeDraft(st, &order) {
			return nil
		}
		SetAttributeName(&order, act.Attr, act.Name)
		return e.persistEdit(ctx, st, &order)
	}

	if st.Flow != state.FlowCreateOrder {
		return nil
	}
	step, ok := StepAt(st.Flow, st.StepIndex)
	if !ok || !isValueStep(step.Name) || step.Attr != act.Attr {
		return nil
	}

	var order domain.Order
	if !e.decodeDraft(st, &order) {
		return nil
	}
	SetAttributeName(&order, act.Attr, act.Name)
	if !e.encodeDraft(st, &order) {
		return nil
	}
	st.StepIndex++
	recordStep(st.Flow, step.Name)
	return e.askCurrent(ctx, st)
}

func (e *Engine) turnPage(ctx context.Context, userID int64, st *state.UserState, act Action) error {
	if act.Target == PageTargetAll {
		if userID == e.adminID {
			return e.showAdminList(ctx, userID, act.Page)
		}
		return e.showOwnList(ctx, userID, act.Page)
	}

	if st == nil {
		return nil
	}

	titleKey := ""
	if step, ok := StepAt(st.Flow, st.StepIndex); ok {
		titleKey = step.PromptKey
	} else if st.Flow == state.FlowEditField {
		titleKey = editPromptKey(st.EditField)
	}
	return e.showPicker(ctx, st, titleKey, domain.CatalogKind(act.Target), act.Page)
}

// --- entity views ----------------------------------------------------------

func (e *Engine) showOwnList(ctx context.Context, userID int64, page int) error {
	orders, err := e.market.OrdersByOwner(ctx, userID)
	if err != nil {
		e.log.Error("failed to list orders", "user_id", userID, "error", err)
		return e.notice(ctx, userID, "notice.list_failed", statusNoticeTTL)
	}
	return e.showList(ctx, userID, orders, page, false)
}

func (e *Engine) showAdminList(ctx context.Context, userID int64, page int) error {
	orders, err := e.market.ActiveOrders(ctx)
	if err != nil {
		e.log.Error("failed to list active orders", "error", err)
		return e.notice(ctx, userID, "notice.list_failed", statusNoticeTTL)
	}
	return e.showList(ctx, userID, orders, page, true)
}

func (e *Engine) showList(ctx context.Context, userID int64, orders []domain.Order, page int, admin bool) error {
	sortOrders(orders)
	start, end, clamped, total := PageWindow(len(orders), AdminListPageSize, page)

	return e.show(ctx, userID, Prompt{
		Kind:       PromptEntityList,
		Orders:     orders[start:end],
		Page:       clamped,
		TotalPages: total,
		PageTarget: PageTargetAll,
		AdminView:  admin,
	})
}

func (e *Engine) showDetail(ctx context.Context, userID int64, entityID int) error {
	order, err := e.market.OrderByID(ctx, entityID)
	if err != nil {
		e.log.Error("failed to load order", "entity_id", entityID, "error", err)
		return e.notice(ctx, userID, "notice.load_failed", statusNoticeTTL)
	}
	return e.show(ctx, userID, Prompt{Kind: PromptEntityDetail, Order: order, EntityID: entityID})
}

func (e *Engine) beginEditMenu(ctx context.Context, userID int64, entityID int) error {
	order, err := e.market.OrderByID(ctx, entityID)
	if err != nil {
		e.log.Error("failed to load order", "entity_id", entityID, "error", err)
		return e.notice(ctx, userID, "notice.load_failed", statusNoticeTTL)
	}

	draft, err := json.Marshal(order)
	if err != nil {
		return err
	}

	st := &state.UserState{
		UserID:   userID,
		Flow:     state.FlowSelectFieldUpdate,
		EntityID: entityID,
		Draft:    draft,
	}
	return e.sendPrompt(ctx, st, Prompt{Kind: PromptEditMenu, Order: order, EntityID: entityID})
}

func (e *Engine) beginFieldEdit(ctx context.Context, userID int64, st *state.UserState, act Action) error {
	var order domain.Order
	if st != nil && st.EntityID == act.EntityID && len(st.Draft) > 0 {
		if !e.decodeDraft(st, &order) {
			return nil
		}
	} else {
		loaded, err := e.market.OrderByID(ctx, act.EntityID)
		if err != nil {
			e.log.Error("failed to load order", "entity_id", act.EntityID, "error", err)
			return e.notice(ctx, userID, "notice.load_failed", statusNoticeTTL)
		}
		order = *loaded
	}

	draft, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if st == nil {
		st = &state.UserState{UserID: userID}
	}
	st.Flow = state.FlowEditField
	st.EditField = act.Field
	st.EntityID = act.EntityID
	st.Draft = draft
	st.StepIndex = 0

	if attr := attrForField(act.Field); attr != "" {
		giftID, found, err := e.resolveGiftID(ctx, order.GiftName)
		if err != nil || !found {
			return e.notice(ctx, userID, "notice.load_failed", statusNoticeTTL)
		}
		st.SelectedGiftID = &giftID
		return e.showPicker(ctx, st, editPromptKey(act.Field), attr, 0)
	}

	editStep := Step{
		Name:        act.Field,
		PromptKey:   editPromptKey(act.Field),
		Layout:      layoutForField(act.Field),
		AcceptsText: true,
	}
	return e.sendPrompt(ctx, st, Prompt{Kind: PromptStep, Step: editStep})
}

func (e *Engine) deleteEntity(ctx context.Context, userID int64, st *state.UserState, entityID int) error {
	if err := e.market.DeleteOrder(ctx, entityID); err != nil {
		e.log.Error("failed to delete order", "entity_id", entityID, "error", err)
		return e.notice(ctx, userID, "notice.delete_failed", statusNoticeTTL)
	}
	_ = e.notice(ctx, userID, "notice.deleted", statusNoticeTTL)

	if st != nil {
		e.retract(ctx, st)
		if err := e.store.ClearState(ctx, userID); err != nil {
			return err
		}
	}
	return e.showOwnList(ctx, userID, 0)
}

func (e *Engine) persistEdit(ctx context.Context, st *state.UserState, order *domain.Order) error {
	order.ID = st.EntityID

	if err := e.market.UpdateOrder(ctx, st.EntityID, order); err != nil {
		e.log.Error("failed to update order", "entity_id", st.EntityID, "error", err)
		_ = e.notice(ctx, st.UserID, "notice.field_update_failed", statusNoticeTTL)
	} else {
		_ = e.notice(ctx, st.UserID, "notice.field_updated", statusNoticeTTL)
	}

	st.Flow = state.FlowSelectFieldUpdate
	st.EditField = ""
	st.SelectedGiftID = nil
	if !e.encodeDraft(st, order) {
		return nil
	}
	return e.sendPrompt(ctx, st, Prompt{Kind: PromptEditMenu, Order: order, EntityID: st.EntityID})
}

// --- monitoring sub-loop ---------------------------------------------------

func (e *Engine) commitAccount(ctx context.Context, st *state.UserState, active bool) error {
	if st.PendingAccountID == nil {
		return nil
	}

	var cfg domain.MonitoringConfig
	if !e.decodeDraft(st, &cfg) {
		return nil
	}
	cfg.Accounts = append(cfg.Accounts, domain.MonitoringAccount{
		UserID:   *st.PendingAccountID,
		IsActive: active,
	})
	st.PendingAccountID = nil
	if !e.encodeDraft(st, &cfg) {
		return nil
	}
	st.StepIndex = len(monitoringSteps)
	recordStep(st.Flow, StepAccountActive)

	return e.promptAddAccount(ctx, st)
}

func (e *Engine) addAnotherAccount(ctx context.Context, st *state.UserState) error {
	if st == nil || st.Flow != state.FlowCreateMonitoring {
		return nil
	}
	st.StepIndex = MonitoringAccountLoopIndex
	return e.askCurrent(ctx, st)
}

func (e *Engine) reviewMonitoring(ctx context.Context, st *state.UserState) error {
	if st == nil || st.Flow != state.FlowCreateMonitoring {
		return nil
	}

	var cfg domain.MonitoringConfig
	if !e.decodeDraft(st, &cfg) {
		return nil
	}

	if len(cfg.Accounts) == 0 {
		recordFinalize(st.Flow, false)
		_ = e.notice(ctx, st.UserID, "notice.monitoring_no_accounts", warningNoticeTTL)
		return e.clearAndMenu(ctx, st.UserID, st)
	}

	return e.sendPrompt(ctx, st, Prompt{Kind: PromptMonitoringSummary, Monitoring: &cfg})
}

func (e *Engine) submitMonitoring(ctx context.Context, st *state.UserState) error {
	if st == nil || st.Flow != state.FlowCreateMonitoring {
		return nil
	}

	var cfg domain.MonitoringConfig
	if !e.decodeDraft(st, &cfg) {
		return nil
	}

	if err := e.market.CreateMonitoringConfig(ctx, &cfg); err != nil {
		e.log.Error("failed to create monitoring config", "user_id", st.UserID, "error", err)
		recordFinalize(st.Flow, false)
		_ = e.notice(ctx, st.UserID, "notice.monitoring_create_failed", statusNoticeTTL)
	} else {
		recordFinalize(st.Flow, true)
		_ = e.notice(ctx, st.UserID, "notice.monitoring_created", statusNoticeTTL)
	}

	// Fail open: success and failure both return to idle.
	return e.clearAndMenu(ctx, st.UserID, st)
}

func (e *Engine) promptAddAccount(ctx context.Context, st *state.UserState) error {
	return e.sendPrompt(ctx, st, Prompt{Kind: PromptAddAccount})
}

// --- progression -----------------------------------------------------------

// askCurrent prompts for the step at the current index, finalizing when the
// index has moved past the end of the table.
func (e *Engine) askCurrent(ctx context.Context, st *state.UserState) error {
	steps := Steps(st.Flow)
	if st.StepIndex >= len(steps) {
		if st.Flow == state.FlowCreateMonitoring {
			return e.promptAddAccount(ctx, st)
		}
		return e.finalizeOrder(ctx, st)
	}

	step := steps[st.StepIndex]

	// A value step whose name is already filled is consumed silently. The
	// original detects "name is set" rather than an explicit branch flag,
	// which conflates exact-pick with pre-population; behavior kept.
	if st.Flow == state.FlowCreateOrder && isValueStep(step.Name) {
		var order domain.Order
		if !e.decodeDraft(st, &order) {
			return nil
		}
		if AttributeName(&order, step.Attr) != nil {
			st.StepIndex++
			return e.askCurrent(ctx, st)
		}
	}

	if step.Layout == LayoutPicker {
		return e.showPicker(ctx, st, step.PromptKey, step.Catalog, 0)
	}
	return e.sendPrompt(ctx, st, Prompt{Kind: PromptStep, Step: step})
}

func (e *Engine) finalizeOrder(ctx context.Context, st *state.UserState) error {
	var order domain.Order
	if !e.decodeDraft(st, &order) {
		return nil
	}
	order.UserID = st.UserID

	var err error
	if st.EntityID != 0 {
		order.ID = st.EntityID
		err = e.market.UpdateOrder(ctx, st.EntityID, &order)
	} else {
		err = e.market.CreateOrder(ctx, &order)
	}

	if err != nil {
		e.log.Error("failed to submit order", "user_id", st.UserID, "error", err)
		recordFinalize(st.Flow, false)
		_ = e.notice(ctx, st.UserID, "notice.order_create_failed", statusNoticeTTL)
	} else {
		recordFinalize(st.Flow, true)
		_ = e.notice(ctx, st.UserID, "notice.order_created", statusNoticeTTL)
	}

	// Fail open: the conversation clears either way.
	return e.clearAndMenu(ctx, st.UserID, st)
}

// --- rendering helpers -----------------------------------------------------

func (e *Engine) showPicker(ctx context.Context, st *state.UserState, titleKey string, catalog domain.CatalogKind, page int) error {
	var giftID int64
	if catalog != domain.CatalogGifts {
		if st.SelectedGiftID == nil {
			return nil
		}
		giftID = *st.SelectedGiftID
	}

	items, err := e.market.Options(ctx, catalog, giftID)
	if err != nil {
		e.log.Error("failed to fetch catalog options", "catalog", string(catalog), "error", err)
		return e.notice(ctx, st.UserID, "notice.catalog_failed", statusNoticeTTL)
	}

	start, end, clamped, total := PageWindow(len(items), PickerPageSize, page)

	return e.sendPrompt(ctx, st, Prompt{
		Kind:       PromptPicker,
		Key:        titleKey,
		Items:      items[start:end],
		Catalog:    catalog,
		Page:       clamped,
		TotalPages: total,
		PageTarget: string(catalog),
	})
}

func (e *Engine) showMainMenu(ctx context.Context, userID int64) error {
	return e.show(ctx, userID, Prompt{Kind: PromptMainMenu, AdminView: userID == e.adminID})
}

func (e *Engine) clearAndMenu(ctx context.Context, userID int64, st *state.UserState) error {
	if st != nil {
		e.retract(ctx, st)
	}
	if err := e.store.ClearState(ctx, userID); err != nil {
		return err
	}
	return e.showMainMenu(ctx, userID)
}

// sendPrompt replaces the outstanding prompt and persists the state row.
func (e *Engine) sendPrompt(ctx context.Context, st *state.UserState, p Prompt) error {
	e.retract(ctx, st)

	msgID, err := e.prompts.Prompt(ctx, st.UserID, p)
	if err != nil {
		e.log.Error("failed to send prompt", "user_id", st.UserID, "error", err)
	} else {
		st.LastPromptID = msgID
	}

	return e.store.SetState(ctx, st.UserID, st)
}

// show sends a prompt without touching persisted state (lists, detail views,
// the idle main menu).
func (e *Engine) show(ctx context.Context, userID int64, p Prompt) error {
	if _, err := e.prompts.Prompt(ctx, userID, p); err != nil {
		e.log.Error("failed to send prompt", "user_id", userID, "error", err)
	}
	return nil
}

func (e *Engine) notice(ctx context.Context, userID int64, key string, ttl time.Duration) error {
	if err := e.prompts.Notice(ctx, userID, key, ttl); err != nil {
		e.log.Error("failed to send notice", "user_id", userID, "key", key, "error", err)
	}
	return nil
}

func (e *Engine) retract(ctx context.Context, st *state.UserState) {
	if st.LastPromptID != 0 {
		e.prompts.Retract(ctx, st.UserID, st.LastPromptID)
		st.LastPromptID = 0
	}
}

func (e *Engine) loadState(ctx context.Context, userID int64) (*state.UserState, error) {
	st, err := e.store.GetState(ctx, userID)
	if err != nil {
		if errors.Is(err, state.ErrStateNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

// decodeDraft unmarshals the draft; a payload that fails to decode aborts
// the current action silently.
func (e *Engine) decodeDraft(st *state.UserState, dst any) bool {
	if err := json.Unmarshal(st.Draft, dst); err != nil {
		e.log.Warn("malformed draft payload, action dropped", "user_id", st.UserID, "flow", string(st.Flow), "error", err)
		return false
	}
	return true
}

func (e *Engine) encodeDraft(st *state.UserState, src any) bool {
	data, err := json.Marshal(src)
	if err != nil {
		e.log.Warn("draft payload not serializable, action dropped", "user_id", st.UserID, "error", err)
		return false
	}
	st.Draft = data
	return true
}

func (e *Engine) resolveGiftID(ctx context.Context, giftName string) (int64, bool, error) {
	gifts, err := e.market.Options(ctx, domain.CatalogGifts, 0)
	if err != nil {
		return 0, false, err
	}
	for _, g := range gifts {
		if g.Name == giftName {
			return g.ID, true, nil
		}
	}
	return 0, false, nil
}

func sortOrders(orders []domain.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].IsActive != orders[j].IsActive {
			return orders[i].IsActive
		}
		return orders[i].ID > orders[j].ID
	})
}

func attrForField(field string) domain.CatalogKind {
	switch field {
	case FieldModel:
		return domain.CatalogModels
	case FieldSymbol:
		return domain.CatalogSymbols
	case FieldBackdrop:
		return domain.CatalogBackdrops
	default:
		return ""
	}
}

func layoutForField(field string) Layout {
	switch field {
	case FieldCurrency:
		return LayoutCurrency
	case FieldActive, FieldOnlyTonPayment, FieldOriginalDetails:
		return LayoutYesNo
	default:
		return LayoutCancel
	}
}

func editPromptKey(field string) string {
	return "prompt.edit." + field
}

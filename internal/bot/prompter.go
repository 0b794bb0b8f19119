package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftdesk/giftdesk-bot/internal/bot/keyboard"
	"github.com/giftdesk/giftdesk-bot/internal/domain"
	"github.com/giftdesk/giftdesk-bot/internal/flow"
	"github.com/giftdesk/giftdesk-bot/internal/i18n"
)

// Prompter renders flow prompts into Telegram messages with inline
// keyboards.
type Prompter struct {
	bot *telebot.Bot
	kb  *keyboard.Builder
	t   i18n.Translator
	log *slog.Logger
}

// NewPrompter constructs a Prompter bound to the given bot instance.
func NewPrompter(bot *telebot.Bot, kb *keyboard.Builder, t i18n.Translator, log *slog.Logger) *Prompter {
	if log == nil {
		log = slog.Default()
	}

	return &Prompter{bot: bot, kb: kb, t: t, log: log}
}

// Prompt sends the rendered prompt and returns the message id for later
// retraction.
func (p *Prompter) Prompt(_ context.Context, userID int64, pr flow.Prompt) (int, error) {
	text, markup := p.render(pr)

	msg, err := p.bot.Send(telebot.ChatID(userID), text, markup)
	if err != nil {
		return 0, fmt.Errorf("send prompt: %w", err)
	}

	return msg.ID, nil
}

// Notice sends a transient status message that deletes itself after ttl.
func (p *Prompter) Notice(_ context.Context, userID int64, key string, ttl time.Duration) error {
	msg, err := p.bot.Send(telebot.ChatID(userID), p.t.T(key))
	if err != nil {
		return fmt.Errorf("send notice: %w", err)
	}

	go func() {
		time.Sleep(ttl)
		if delErr := p.bot.Delete(msg); delErr != nil {
			p.log.Debug("failed to delete notice", slog.Int64("user_id", userID), slog.Any("error", delErr))
		}
	}()

	return nil
}

// Retract deletes a previously sent prompt, best effort.
func (p *Prompter) Retract(_ context.Context, userID int64, messageID int) {
	ref := &telebot.Message{ID: messageID, Chat: &telebot.Chat{ID: userID}}
	if err := p.bot.Delete(ref); err != nil {
		p.log.Debug("failed to retract prompt", slog.Int64("user_id", userID), slog.Int("message_id", messageID), slog.Any("error", err))
	}
}

func (p *Prompter) render(pr flow.Prompt) (string, *telebot.ReplyMarkup) {
	switch pr.Kind {
	case flow.PromptMainMenu:
		return p.t.T("menu.title"), p.kb.MainMenu(pr.AdminView)
	case flow.PromptStep:
		return p.t.T(p.promptKey(pr)), p.stepMarkup(pr.Step)
	case flow.PromptPicker:
		return p.t.T(p.promptKey(pr)), p.kb.Picker(pr.Catalog, pr.Items, pr.Page, pr.TotalPages)
	case flow.PromptAddAccount:
		return p.t.T("prompt.add_account"), p.kb.AddAccount()
	case flow.PromptMonitoringSummary:
		return p.monitoringSummary(pr.Monitoring), p.kb.ConfirmMonitoring()
	case flow.PromptEntityList:
		return p.listText(pr), p.kb.EntityList(pr.Orders, pr.Page, pr.TotalPages)
	case flow.PromptEntityDetail:
		return p.orderDetail(pr.Order), p.kb.EntityDetail(pr.EntityID)
	case flow.PromptEditMenu:
		return p.orderDetail(pr.Order), p.kb.EditMenu(pr.EntityID)
	default:
		return p.t.T("menu.title"), p.kb.MainMenu(pr.AdminView)
	}
}

func (p *Prompter) promptKey(pr flow.Prompt) string {
	if pr.Key != "" {
		return pr.Key
	}
	return pr.Step.PromptKey
}

func (p *Prompter) stepMarkup(step flow.Step) *telebot.ReplyMarkup {
	switch step.Layout {
	case flow.LayoutSkipCancel:
		return p.kb.SkipCancel()
	case flow.LayoutYesNo:
		return p.kb.YesNo()
	case flow.LayoutCurrency:
		return p.kb.Currency()
	case flow.LayoutTypeChoice:
		return p.kb.TypeChoice(step.Attr)
	default:
		return p.kb.Cancel()
	}
}

func (p *Prompter) listText(pr flow.Prompt) string {
	title := p.t.T("list.title")
	if pr.AdminView {
		title = p.t.T("list.title_admin")
	}

	if len(pr.Orders) == 0 {
		return title + "\n\n" + p.t.T("list.empty")
	}
	return title
}

func (p *Prompter) orderDetail(order *domain.Order) string {
	if order == nil {
		return p.t.T("notice.load_failed")
	}

	var b strings.Builder
	fmt.Fprintf(&b, p.t.T("detail.title"), order.ID)
	b.WriteString("\n\n")

	p.line(&b, "label.gift", order.GiftName)
	p.line(&b, "label.model", p.attrValue(order.ModelName, order.PercentOfTheModel))
	p.line(&b, "label.symbol", p.attrValue(order.SymbolName, order.PercentOfTheSymbol))
	p.line(&b, "label.backdrop", p.attrValue(order.BackdropName, order.PercentOfTheBackdrop))
	p.line(&b, "label.min_price", fmt.Sprintf("%d", order.MinPrice))
	p.line(&b, "label.max_price", fmt.Sprintf("%d", order.MaxPrice))
	p.line(&b, "label.amount", fmt.Sprintf("%d", order.AmountToBuy))
	p.line(&b, "label.bought", fmt.Sprintf("%d", order.AmountBought))
	p.line(&b, "label.currency", order.Currency)
	p.line(&b, "label.active", boolMark(order.IsActive))
	p.line(&b, "label.only_ton", boolMark(order.IsOnlyTonPayment))
	p.line(&b, "label.original_details", boolMark(order.ShouldBuyWithOriginalDetails))
	p.line(&b, "label.owner", fmt.Sprintf("%d", order.OwnerID))

	return strings.TrimRight(b.String(), "\n")
}

func (p *Prompter) monitoringSummary(cfg *domain.MonitoringConfig) string {
	if cfg == nil {
		return p.t.T("prompt.summary")
	}

	var b strings.Builder
	b.WriteString(p.t.T("prompt.summary"))
	b.WriteString("\n\n")

	p.line(&b, "label.gift", cfg.GiftName)
	p.line(&b, "label.interval", fmt.Sprintf("%d", cfg.AccountInterval))
	p.line(&b, "label.max_batches", fmt.Sprintf("%d", cfg.MaxBatches))
	p.line(&b, "label.active", boolMark(cfg.IsActive))

	b.WriteString(p.t.T("label.accounts"))
	b.WriteString(":\n")
	for _, account := range cfg.Accounts {
		fmt.Fprintf(&b, "• %d %s\n", account.UserID, boolMark(account.IsActive))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (p *Prompter) line(b *strings.Builder, labelKey, value string) {
	if value == "" {
		value = p.t.T("label.none")
	}
	fmt.Fprintf(b, "%s: %s\n", p.t.T(labelKey), value)
}

func (p *Prompter) attrValue(name, percent *string) string {
	switch {
	case name != nil:
		return *name
	case percent != nil:
		return *percent
	default:
		return ""
	}
}

func boolMark(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

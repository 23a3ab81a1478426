// Package chat drives the conversational pipeline: persist the inbound
// message, build the classifier context, normalize the structured decision,
// commit any extracted expense, and persist the reply. The pipeline never
// fails a turn because of the classifier; every failure degrades to a fixed
// reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"finbot/internal/domain"
	"finbot/internal/expense"
	"finbot/internal/providers/classifier"
)

const (
	historyWindow = 50

	missingKeyReply    = "⚠️ Gemini API Key is missing. Please set GEMINI_API_KEY in the environment."
	classifierErrReply = "❌ Sorry, I encountered an error while processing your request."
	defaultDescription = "Added via FinBot"
)

// Orchestrator wires the classifier, the approval service and the chat store.
type Orchestrator struct {
	chats      domain.ChatRepository
	expenses   domain.ExpenseRepository
	approvals  *expense.Service
	classifier classifier.Classifier
	log        zerolog.Logger
	now        func() time.Time
}

// NewOrchestrator creates a chat orchestrator.
func NewOrchestrator(chats domain.ChatRepository, expenses domain.ExpenseRepository, approvals *expense.Service, cls classifier.Classifier, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		chats:      chats,
		expenses:   expenses,
		approvals:  approvals,
		classifier: cls,
		log:        log,
		now:        time.Now,
	}
}

// HandleUserMessage runs one conversational turn. The user's message is
// stored before anything else; the assistant reply is stored as a side
// effect; the stored inbound record is what the caller gets back. Clients
// fetch the reply via the history read.
func (o *Orchestrator) HandleUserMessage(ctx context.Context, user *domain.User, message string) (*domain.Chat, error) {
	inbound, err := o.chats.Insert(ctx, &domain.Chat{
		OwnerID:   user.ID,
		Message:   message,
		Timestamp: o.now().In(domain.IST),
	})
	if err != nil {
		return nil, fmt.Errorf("store inbound chat: %w", err)
	}

	reply, toCreate := o.respond(ctx, user, message)

	if toCreate != nil {
		if _, err := o.approvals.Submit(ctx, user.ID, *toCreate); err != nil {
			o.log.Error().Err(err).Str("owner_id", user.ID).Msg("chat expense commit failed")
			reply = fmt.Sprintf("❌ Failed to create expense. Database error: %v", err)
		}
	}

	if _, err := o.chats.Insert(ctx, &domain.Chat{
		OwnerID:   user.ID,
		Message:   reply,
		IsSupport: true,
		Timestamp: o.now().In(domain.IST),
	}); err != nil {
		o.log.Error().Err(err).Str("owner_id", user.ID).Msg("store assistant reply failed")
	}

	return inbound, nil
}

// respond classifies the message and, when it encodes an expense, builds the
// normalized creation request. Classifier failures map to fixed replies.
func (o *Orchestrator) respond(ctx context.Context, user *domain.User, message string) (string, *expense.SubmitInput) {
	systemContext, err := o.buildContext(ctx, user)
	if err != nil {
		o.log.Error().Err(err).Str("owner_id", user.ID).Msg("build classifier context failed")
		return classifierErrReply, nil
	}

	decision, err := o.classifier.Classify(ctx, systemContext, message)
	if err != nil {
		if errors.Is(err, classifier.ErrUnavailable) {
			return missingKeyReply, nil
		}
		o.log.Error().Err(err).Str("owner_id", user.ID).Msg("classifier call failed")
		return classifierErrReply, nil
	}

	if decision.IsExpense && decision.Amount != nil && decision.Category != "" {
		description := strings.TrimSpace(decision.Description)
		if description == "" {
			description = defaultDescription
		}
		return decision.ReplyMessage, &expense.SubmitInput{
			Amount:      *decision.Amount,
			Category:    domain.NormalizeCategory(decision.Category),
			Description: description,
			Date:        o.now().In(domain.IST),
		}
	}
	return decision.ReplyMessage, nil
}

// buildContext renders the system instruction: the user's budget position
// plus a compact view of the most recent expenses.
func (o *Orchestrator) buildContext(ctx context.Context, user *domain.User) (string, error) {
	recent, err := o.expenses.ListRecentByOwner(ctx, user.ID, historyWindow)
	if err != nil {
		return "", fmt.Errorf("load recent expenses: %w", err)
	}

	now := o.now().In(domain.IST)
	dailyLimit := domain.DailyLimit(user.Grade)
	var spentToday float64
	for _, e := range recent {
		if e.Status == domain.StatusApproved && domain.SameLocalDay(e.Date, now) {
			spentToday += e.Amount
		}
	}
	remaining := dailyLimit - spentToday

	history := renderHistory(recent)

	sb := &strings.Builder{}
	sb.WriteString("You are FinBot, an AI expense tracking assistant.\n")
	sb.WriteString("The user relies on you to log expenses and answer questions about their spending.\n\n")
	fmt.Fprintf(sb, "User Info:\n- Daily Limit: ₹%s\n- Spent Today: ₹%s\n- Remaining Today: ₹%s\n- Today's Date: %s\n\n",
		formatAmount(dailyLimit), formatAmount(spentToday), formatAmount(remaining), now.Format("2006-01-02"))
	fmt.Fprintf(sb, "Recent Expenses (last %d):\n%s\n\n", historyWindow, history)
	sb.WriteString(`Your Task:
Analyze the user's message.
1. If the user wants to log/create a new expense (e.g., "I ate lunch for 500", "Spent 200 on travel", "Expense: Food 500"):
   - Set is_expense = true
   - Extract category (must map to one of: food, travel, supplies, other). Try your best to categorize.
   - Extract amount (number).
   - Extract description. Formulate a short description if one isn't explicitly provided.
   - Provide a friendly confirmation reply_message.

2. If the user is asking a question (e.g., "What is my limit?", "How much did I spend today?", "Show my last 3 expenses"):
   - Set is_expense = false
   - Answer their question concisely and nicely in the reply_message based strictly on the User Info and Recent Expenses context above.
   - You can use markdown to format the reply_message.
   - IMPORTANT: For Indian currency, use the ₹ symbol. No $ symbol.

Return JSON strictly matching this schema: {"is_expense":boolean,"category":string,"amount":number,"description":string,"reply_message":string}.`)
	return sb.String(), nil
}

func renderHistory(expenses []domain.Expense) string {
	if len(expenses) == 0 {
		return "No expenses found."
	}
	lines := make([]string, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, fmt.Sprintf("[%s] %s - ₹%s (%s): %s",
			e.Date.In(domain.IST).Format("2006-01-02 15:04"), e.Category, formatAmount(e.Amount), e.Status, e.Description))
	}
	return strings.Join(lines, "\n")
}

func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

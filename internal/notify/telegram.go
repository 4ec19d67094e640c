package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/worker"
)

const telegramJobType = "telegram_announcement"

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramAnnouncer posts a message to the household chat whenever a
// recurring chore is generated.
type TelegramAnnouncer struct {
	bot    telegramSender
	chatID int64
	jobs   worker.Enqueuer
	logger *slog.Logger
}

// NewTelegramAnnouncer connects to the Bot API. It returns nil when the
// integration is disabled.
func NewTelegramAnnouncer(cfg config.TelegramConfig, jobs worker.Enqueuer, logger *slog.Logger) (*TelegramAnnouncer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return newTelegramAnnouncer(bot, cfg.ChatID, jobs, logger), nil
}

func newTelegramAnnouncer(bot telegramSender, chatID int64, jobs worker.Enqueuer, logger *slog.Logger) *TelegramAnnouncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramAnnouncer{
		bot:    bot,
		chatID: chatID,
		jobs:   jobs,
		logger: logger.With("component", "telegram_announcer"),
	}
}

var _ events.EventHandler = (*TelegramAnnouncer)(nil)

// HandleEvent queues an announcement for generated tasks and ignores
// everything else.
func (a *TelegramAnnouncer) HandleEvent(_ context.Context, event *events.Event) error {
	if event.Type != events.TaskCreated {
		return nil
	}
	var task domain.TaskView
	if err := event.UnmarshalPayload(&task); err != nil {
		return fmt.Errorf("failed to decode task payload: %w", err)
	}
	if task.PeriodicTaskID == nil {
		return nil
	}

	msg := tgbotapi.NewMessage(a.chatID, announcementText(&task))
	msg.ParseMode = tgbotapi.ModeHTML

	job := worker.NewFuncJob(telegramJobType, func(context.Context) error {
		if _, err := a.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
		return nil
	})
	if err := a.jobs.Enqueue(job); err != nil {
		a.logger.Warn("failed to queue telegram announcement", "task_id", task.ID, "error", err)
	}
	return nil
}

func announcementText(task *domain.TaskView) string {
	var b strings.Builder
	b.WriteString("🔁 <b>Nueva tarea recurrente</b>\n")
	if task.Category != nil {
		b.WriteString(html.EscapeString(task.Category.Emoji) + " ")
	}
	b.WriteString("<b>" + html.EscapeString(task.Title) + "</b>\n")
	b.WriteString("Dificultad: " + html.EscapeString(task.Size.Label()))
	if task.AssignedTo != nil {
		b.WriteString("\nAsignada a: " + html.EscapeString(task.AssignedTo.Name))
	}
	return b.String()
}

package notify

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/events"
	"github.com/tareaspendientes/tareas-api/internal/platform/logger"
)

type recordingBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *recordingBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, b.err
}

func TestNewTelegramAnnouncer_Disabled(t *testing.T) {
	a, err := NewTelegramAnnouncer(config.TelegramConfig{}, &inlineEnqueuer{}, nil)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestTelegramAnnouncer_AnnouncesGeneratedTasks(t *testing.T) {
	log, _ := testLogger(t)
	bot := &recordingBot{}
	jobs := &inlineEnqueuer{}
	a := newTelegramAnnouncer(bot, -100123, jobs, log)

	event, err := events.NewEvent(events.TaskCreated, sampleTask())
	require.NoError(t, err)
	require.NoError(t, a.HandleEvent(context.Background(), event))

	require.Len(t, bot.sent, 1)
	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(-100123), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "<b>Limpiar &lt;baño&gt;</b>")
	assert.Contains(t, msg.Text, "🛁")
	assert.Contains(t, msg.Text, "Dificultad: Mediana (M)")
	assert.Contains(t, msg.Text, "Asignada a: Ana María López")
	assert.Equal(t, []error{nil}, jobs.errs)
}

func TestTelegramAnnouncer_IgnoresOtherEvents(t *testing.T) {
	bot := &recordingBot{}
	a := newTelegramAnnouncer(bot, 1, &inlineEnqueuer{}, nil)

	manual := sampleTask()
	manual.PeriodicTaskID = nil
	created, err := events.NewEvent(events.TaskCreated, manual)
	require.NoError(t, err)
	updated, err := events.NewEvent(events.TaskUpdated, sampleTask())
	require.NoError(t, err)

	require.NoError(t, a.HandleEvent(context.Background(), created))
	require.NoError(t, a.HandleEvent(context.Background(), updated))
	assert.Empty(t, bot.sent)
}

func TestTelegramAnnouncer_Failures(t *testing.T) {
	t.Run("send error is reported by the job", func(t *testing.T) {
		jobs := &inlineEnqueuer{}
		a := newTelegramAnnouncer(&recordingBot{err: errSend}, 1, jobs, nil)
		event, err := events.NewEvent(events.TaskCreated, sampleTask())
		require.NoError(t, err)

		require.NoError(t, a.HandleEvent(context.Background(), event))
		require.Len(t, jobs.errs, 1)
		assert.ErrorIs(t, jobs.errs[0], errSend)
	})

	t.Run("full queue is logged", func(t *testing.T) {
		log, buf := testLogger(t)
		a := newTelegramAnnouncer(&recordingBot{}, 1, rejectingEnqueuer{}, log)
		event, err := events.NewEvent(events.TaskCreated, sampleTask())
		require.NoError(t, err)

		require.NoError(t, a.HandleEvent(context.Background(), event))
		logger.AssertLogContains(t, buf, "failed to queue telegram announcement")
	})

	t.Run("bad payload", func(t *testing.T) {
		a := newTelegramAnnouncer(&recordingBot{}, 1, &inlineEnqueuer{}, nil)
		err := a.HandleEvent(context.Background(), &events.Event{Type: events.TaskCreated, Payload: []byte(`[`)})
		assert.Error(t, err)
	})
}

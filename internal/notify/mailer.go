package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/tareaspendientes/tareas-api/internal/config"
	"github.com/tareaspendientes/tareas-api/internal/domain"
	"github.com/tareaspendientes/tareas-api/internal/redact"
)

const defaultFromName = "Tareas Pendientes"

var assignmentTemplate = template.Must(template.New("assignment").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #1976d2;">Hola {{.FirstName}},</h2>
  <p>Se te ha asignado una nueva tarea:</p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0; color: #333;">{{.Title}}</h3>
    {{- if .Description}}
    <p style="color: #666;">{{.Description}}</p>
    {{- end}}
    <p style="margin-bottom: 0;"><strong>Dificultad:</strong> {{.Size}}</p>
  </div>
  <p style="color: #666;">Asignada por: <strong>{{.Sender}}</strong></p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Este es un mensaje automático de Tareas Pendientes.</p>
</div>
`))

type assignmentData struct {
	FirstName   string
	Title       string
	Description string
	Size        string
	Sender      string
}

// smtpSender is the part of *mail.Client the mailer uses.
type smtpSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends assignment e-mails over SMTP.
type Mailer struct {
	client   smtpSender
	fromName string
	from     string
	logger   *slog.Logger
}

// NewMailer creates a Mailer. When mail is disabled the returned Mailer logs
// and skips every message.
func NewMailer(cfg config.MailConfig, logger *slog.Logger) (*Mailer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mailer{
		fromName: cfg.FromName,
		from:     cfg.FromAddress,
		logger:   logger.With("component", "mailer"),
	}
	if m.fromName == "" {
		m.fromName = defaultFromName
	}
	if !cfg.Enabled {
		return m, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password))
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	m.client = client
	return m, nil
}

// Enabled reports whether messages are actually sent.
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// SendAssignment tells name at address to that task was assigned to them by sender.
func (m *Mailer) SendAssignment(ctx context.Context, to, name string, task *domain.TaskView, sender string) error {
	if !m.Enabled() {
		m.logger.Info("email not configured - skipping notification", "task_id", task.ID)
		return nil
	}

	subject, body, err := renderAssignment(name, task, sender)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send assignment email: %w", err)
	}
	m.logger.Info("assignment email sent",
		"task_id", task.ID,
		"recipient", redact.Email(to))
	return nil
}

func renderAssignment(name string, task *domain.TaskView, sender string) (string, string, error) {
	data := assignmentData{
		FirstName: domain.FirstName(name),
		Title:     task.Title,
		Size:      task.Size.Label(),
		Sender:    sender,
	}
	if task.Description != nil {
		data.Description = *task.Description
	}

	var buf bytes.Buffer
	if err := assignmentTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render assignment email: %w", err)
	}
	return `Nueva tarea asignada: "` + task.Title + `"`, buf.String(), nil
}

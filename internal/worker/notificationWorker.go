package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/sirupsen/logrus"

	"github.com/evreg/registration-service/internal/entity"
	"github.com/evreg/registration-service/pkg/rabbitmq"
)

// EmailSender delivers a rendered notification. The default implementation
// only logs; an SMTP-backed sender can be swapped in via config.
type EmailSender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// LogSender writes notifications to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, recipient, subject, body string) error {
	logrus.WithFields(logrus.Fields{
		"recipient": recipient,
		"subject":   subject,
	}).Info("Email notification (log transport)")
	logrus.Debug(body)
	return nil
}

var templates = map[string]*template.Template{
	entity.TemplateRegistrationConfirmation: template.Must(template.New("registration").Parse(
		"Hi {{.RecipientName}},\n\n" +
			"Your registration for {{.EventTitle}} is confirmed.\n" +
			"Reservation: {{.ReservationID}}\n" +
			"Fee due: {{printf \"%.2f\" .TotalFee}}\n")),
	entity.TemplateTeamRegistrationConfirmation: template.Must(template.New("team").Parse(
		"Hi {{.RecipientName}},\n\n" +
			"Your team of {{.Participants}} is registered for {{.EventTitle}}.\n" +
			"Reservation: {{.ReservationID}}\n" +
			"Members:{{range .TeamMembers}} {{.}};{{end}}\n" +
			"Fee due: {{printf \"%.2f\" .TotalFee}}\n")),
	entity.TemplatePaymentReceived: template.Must(template.New("payment").Parse(
		"Hi {{.RecipientName}},\n\n" +
			"Payment of {{printf \"%.2f\" .TotalFee}} for {{.EventTitle}} was received.\n" +
			"Reservation: {{.ReservationID}}\n")),
}

var subjects = map[string]string{
	entity.TemplateRegistrationConfirmation:     "Registration confirmed",
	entity.TemplateTeamRegistrationConfirmation: "Team registration confirmed",
	entity.TemplatePaymentReceived:              "Payment received",
}

// NotificationWorker consumes the outbound queue and delivers rendered email
// notifications. Handler errors are returned to the broker for redelivery.
type NotificationWorker struct {
	queue  rabbitmq.Queue
	sender EmailSender
}

func NewNotificationWorker(queue rabbitmq.Queue, sender EmailSender) *NotificationWorker {
	if sender == nil {
		sender = LogSender{}
	}
	return &NotificationWorker{queue: queue, sender: sender}
}

func (w *NotificationWorker) Start(ctx context.Context) error {
	logrus.Info("Notification worker started")
	return w.queue.Consume(ctx, func(body []byte) error {
		return w.handleMessage(ctx, body)
	})
}

func (w *NotificationWorker) handleMessage(ctx context.Context, body []byte) error {
	var message entity.NotificationMessage
	if err := json.Unmarshal(body, &message); err != nil {
		// A malformed message will never parse; drop it instead of
		// requeueing forever.
		logrus.Errorf("Dropping malformed notification message: %v", err)
		return nil
	}

	subject, rendered, err := Render(&message)
	if err != nil {
		logrus.WithField("message_id", message.ID).Errorf("Dropping unrenderable notification: %v", err)
		return nil
	}

	if err := w.sender.Send(ctx, message.Recipient, subject, rendered); err != nil {
		return fmt.Errorf("failed to send notification %s: %w", message.ID, err)
	}

	logrus.WithFields(logrus.Fields{
		"message_id": message.ID,
		"template":   message.Template,
		"recipient":  message.Recipient,
	}).Info("Notification delivered")
	return nil
}

// Render produces the subject and body for a notification message.
func Render(message *entity.NotificationMessage) (subject, body string, err error) {
	tmpl, ok := templates[message.Template]
	if !ok {
		return "", "", fmt.Errorf("unknown notification template %q", message.Template)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, message); err != nil {
		return "", "", fmt.Errorf("failed to render template %q: %w", message.Template, err)
	}
	return subjects[message.Template], buf.String(), nil
}

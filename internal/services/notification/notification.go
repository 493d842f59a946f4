// Package notification отправляет пользователям письма о результатах проверки ответов.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/task-platform/internal/lib/sl"
	"github.com/magabrotheeeer/task-platform/internal/lib/smtp"
	"github.com/magabrotheeeer/task-platform/internal/models"
)

// Repository ищет получателя письма.
type Repository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service формирует и отправляет письма через SMTP.
type Service struct {
	repo      Repository
	transport smtp.Dialer
	log       *slog.Logger
}

// New создает Service.
func New(repo Repository, transport smtp.Dialer, log *slog.Logger) *Service {
	return &Service{repo: repo, transport: transport, log: log}
}

var statusText = map[models.SubmissionStatus][2]string{
	models.SubmissionAccepted: {"принят", "accepted"},
	models.SubmissionRejected: {"отклонен", "rejected"},
	models.SubmissionWaiting:  {"возвращен на проверку", "returned for review"},
}

// HandleSubmissionReviewed обрабатывает событие submission.reviewed из очереди.
func (s *Service) HandleSubmissionReviewed(ctx context.Context, body []byte) error {
	const op = "notification.HandleSubmissionReviewed"

	var event models.SubmissionReviewed
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}

	user, err := s.repo.GetUserByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.Email == "" {
		s.log.Warn("user has no email, skipping", slog.String("user_id", user.ID.String()))
		return nil
	}

	text, ok := statusText[event.Status]
	if !ok {
		text = [2]string{string(event.Status), string(event.Status)}
	}
	subject := "Ваш ответ проверен / Your submission has been reviewed"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nВаш ответ на задание %s %s.\nКомментарий: %s\n\n"+
		"Hello, %s!\n\nYour submission for task %s has been %s.\nComment: %s\n",
		user.Username, event.TaskID, text[0], event.AdminComment,
		user.Username, event.TaskID, text[1], event.AdminComment)

	return s.sendEmail([]string{user.Email}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	const op = "notification.sendEmail"
	from := s.transport.From()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			s.log.Debug("smtp client close", sl.Err(err))
		}
	}()

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("%s: mail from: %w", op, err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("%s: rcpt %s: %w", op, addr, err)
		}
	}
	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := wc.Write([]byte(msg)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}

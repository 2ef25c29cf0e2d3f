package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bpi.backend/internal/domain/entities"
	"bpi.backend/internal/domain/repositories"
	"bpi.backend/pkg/logger"
)

// Mailer delivers plain-text email
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MailSendTimeout bounds one background email delivery.
const MailSendTimeout = 30 * time.Second

// NotificationUsecase dispatches in-app and email notifications.
// Every failure is logged and swallowed.
type NotificationUsecase struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	mailer           Mailer
	inflight         sync.WaitGroup
}

// NewNotificationUsecase creates a new notification usecase. mailer may be nil.
func NewNotificationUsecase(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	mailer Mailer,
) *NotificationUsecase {
	return &NotificationUsecase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		mailer:           mailer,
	}
}

// Notify stores an in-app notification and emails the user when possible
func (u *NotificationUsecase) Notify(ctx context.Context, userID uuid.UUID, title, message, link string) {
	if u == nil {
		return
	}

	if err := u.notificationRepo.Create(ctx, &entities.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
	}); err != nil {
		logger.Warn(ctx, "Failed to store notification", zap.String("user_id", userID.String()), zap.Error(err))
	}

	if u.mailer == nil {
		return
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}

	body := message
	if link != "" {
		body = strings.TrimSpace(message) + "\n\n" + link
	}

	// The email leaves the request path: the caller has already committed and
	// must not wait on the SMTP relay.
	mailCtx := context.WithoutCancel(ctx)
	u.inflight.Add(1)
	go func() {
		defer u.inflight.Done()
		sendCtx, cancel := context.WithTimeout(mailCtx, MailSendTimeout)
		defer cancel()
		if err := u.mailer.Send(sendCtx, user.Email, title, body); err != nil {
			logger.Warn(sendCtx, "Failed to send notification email", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}()
}

// Wait blocks until every queued email has been attempted
func (u *NotificationUsecase) Wait() {
	if u == nil {
		return
	}
	u.inflight.Wait()
}

// Package notify records in-app notifications and fans them out over
// email/SMS. Delivery is best effort: a failure here never fails or rolls
// back the operation that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/config"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/models"
)

// SESService abstracts the SES client for testing
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SNSService abstracts the SNS client for testing
type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Store persists the in-app notification row.
type Store interface {
	Insert(ctx context.Context, n *models.Notification) error
}

type Notifier struct {
	store  Store
	ses    SESService
	sns    SNSService
	cfg    config.NotificationConfig
	logger logger.Logger
}

func New(store Store, sesSvc SESService, snsSvc SNSService, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	return &Notifier{
		store:  store,
		ses:    sesSvc,
		sns:    snsSvc,
		cfg:    cfg,
		logger: log,
	}
}

// Recipient carries the delivery addresses for the target user.
type Recipient struct {
	Email string
	Phone string
}

// Dispatch fires the notification in the background. The caller never
// waits on it and never sees its errors.
func (n *Notifier) Dispatch(notification *models.Notification, rcpt Recipient) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		n.deliver(ctx, notification, rcpt)
	}()
}

// Deliver runs synchronously. Exported for tests; production code goes
// through Dispatch.
func (n *Notifier) Deliver(ctx context.Context, notification *models.Notification, rcpt Recipient) {
	n.deliver(ctx, notification, rcpt)
}

func (n *Notifier) deliver(ctx context.Context, notification *models.Notification, rcpt Recipient) {
	if err := n.store.Insert(ctx, notification); err != nil {
		n.logger.Warn("notification row insert failed", map[string]interface{}{
			"type":       string(notification.Type),
			"targetUser": notification.TargetUser,
			"error":      err.Error(),
		})
	}

	if n.cfg.Email.Enabled && n.ses != nil && rcpt.Email != "" {
		if err := n.sendEmail(ctx, notification, rcpt.Email); err != nil {
			n.logger.Warn("notification email failed", map[string]interface{}{
				"type":  string(notification.Type),
				"error": err.Error(),
			})
		}
	}

	if n.cfg.SMS.Enabled && n.sns != nil && rcpt.Phone != "" {
		if err := n.sendSMS(ctx, notification, rcpt.Phone); err != nil {
			n.logger.Warn("notification sms failed", map[string]interface{}{
				"type":  string(notification.Type),
				"error": err.Error(),
			})
		}
	}
}

func (n *Notifier) sendEmail(ctx context.Context, notification *models.Notification, email string) error {
	subject, body := renderMessage(notification)

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, notification *models.Notification, phone string) error {
	_, body := renderMessage(notification)

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(body),
	})
	return err
}

func renderMessage(n *models.Notification) (subject, body string) {
	switch n.Type {
	case models.NotifyApplicationReceived:
		return "New application on your booking",
			fmt.Sprintf("An artist has applied to your booking %s.", n.BookingID)
	case models.NotifyApplicationWithdrawn:
		return "Application withdrawn",
			fmt.Sprintf("An artist withdrew their application on booking %s.", n.BookingID)
	case models.NotifyApplicationAccepted:
		return "Your application was accepted",
			fmt.Sprintf("Your application on booking %s was accepted. Awaiting client payment.", n.BookingID)
	case models.NotifyApplicationDeclined:
		return "Your application was declined",
			fmt.Sprintf("Your application on booking %s was declined.", n.BookingID)
	case models.NotifyBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("Booking %s has been cancelled.", n.BookingID)
	case models.NotifyBookingCompleted:
		return "Booking completed",
			fmt.Sprintf("Booking %s has been completed.", n.BookingID)
	case models.NotifyPaymentReceived:
		return "Payment received",
			fmt.Sprintf("A payment was received for booking %s.", n.BookingID)
	default:
		payload, _ := json.Marshal(n.Payload)
		return "Notification", string(payload)
	}
}

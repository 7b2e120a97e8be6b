package service

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/atinyakov/portfolio/internal/mail"
	"github.com/atinyakov/portfolio/internal/models"
)

// Mailer sends one message and reports which recipients the relay accepted.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (mail.SendResult, error)
}

// ContactService forwards contact-form submissions to the site owner.
type ContactService struct {
	mailer Mailer
	from   string
	to     string
}

// NewContactService constructs a ContactService sending from -> to.
func NewContactService(mailer Mailer, from, to string) *ContactService {
	return &ContactService{mailer: mailer, from: from, to: to}
}

func validateContact(m models.ContactMessage) error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.Phone, validation.Required),
		validation.Field(&m.Email, validation.Required),
		validation.Field(&m.Message, validation.Required),
	)
}

// Send validates m and mails it once. A send the relay accepted for no
// recipient is reported as ErrNotDelivered.
func (s *ContactService) Send(ctx context.Context, m models.ContactMessage) error {
	if err := validateContact(m); err != nil {
		return fmt.Errorf("%w: %v", ErrFieldsMissing, err)
	}

	res, err := s.mailer.Send(ctx, mail.Message{
		From:    s.from,
		To:      []string{s.to},
		Subject: "Message from your portfolio website from " + m.Name,
		Body: fmt.Sprintf("Sender Name: %s Phone number: %s E-mail: %s Message: %s",
			m.Name, m.Phone, m.Email, m.Message),
	})
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	if len(res.Accepted) == 0 {
		return ErrNotDelivered
	}
	return nil
}

package email

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrymomot/folio/pkg/validator"
)

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a single transactional email. At least one of Text and HTML
// must be set.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

// Validate checks the recipient address, the subject and that a body exists.
func (m Message) Validate() error {
	err := validator.Apply(
		validator.ValidEmail("to", m.To),
		validator.RequiredString("subject", m.Subject),
		validator.MaxLenString("subject", m.Subject, 255),
		validator.Rule{
			Check: func() bool { return strings.TrimSpace(m.Text) != "" || strings.TrimSpace(m.HTML) != "" },
			Error: validator.ValidationError{Field: "body", Message: "text or html body is required", TranslationKey: "validation.required"},
		},
	)
	if err != nil {
		return errors.Join(ErrInvalidMessage, err)
	}
	return nil
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

package passcode

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/folio/pkg/sanitizer"
)

// Authorizer decides whether a code may be issued to recipient. The
// recipient is already normalized.
type Authorizer func(ctx context.Context, recipient string) error

// Flow names a purpose a passcode is issued for and the rule that decides
// who may receive one. Codes never verify outside the flow they were
// issued in.
type Flow struct {
	Name      string
	Authorize Authorizer
}

const (
	FlowAdminSignIn     = "admin_sign_in"
	FlowAdminConfirm    = "admin_confirm"
	FlowAccountDeletion = "account_deletion"
)

// AdminFlow only accepts the configured admin address, compared case-insensitively.
func AdminFlow(name, adminEmail string) Flow {
	admin := sanitizer.NormalizeEmail(adminEmail)
	return Flow{
		Name: name,
		Authorize: func(_ context.Context, recipient string) error {
			if admin == "" || !strings.EqualFold(recipient, admin) {
				return ErrUnauthorizedRecipient
			}
			return nil
		},
	}
}

// SelfFlow only accepts the address the caller proved ownership of, placed in
// the context with WithOwner.
func SelfFlow(name string) Flow {
	return Flow{
		Name: name,
		Authorize: func(ctx context.Context, recipient string) error {
			owner, ok := OwnerFromContext(ctx)
			if !ok || !strings.EqualFold(recipient, owner) {
				return ErrUnauthorizedRecipient
			}
			return nil
		},
	}
}

// Title is the human readable flow name used in email subjects.
func (f Flow) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(f.Name, "_", " "))
}

type ownerContextKey struct{}

// WithOwner stores the email address the current caller is authenticated as.
func WithOwner(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, sanitizer.NormalizeEmail(email))
}

// OwnerFromContext returns the address stored by WithOwner.
func OwnerFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ownerContextKey{}).(string)
	return email, ok && email != ""
}

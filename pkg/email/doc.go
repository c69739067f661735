// Package email sends transactional messages through Postmark, or writes
// them to disk during local development.
//
//	sender, err := email.NewFromConfig(cfg)
//	if err != nil {
//		return err
//	}
//	err = sender.Send(ctx, email.Message{
//		To:      "user@example.com",
//		Subject: "Your code",
//		Text:    "123456",
//		Tag:     "passcode",
//	})
//
// The templates subpackage renders templ components to strings for the
// HTML body.
package email

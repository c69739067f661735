package email

// Config holds email delivery configuration. Postmark tokens are optional so
// development environments can run with DevDir instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	DevDir               string `env:"EMAIL_DEV_DIR"` // DevDir switches delivery to files on disk when set.
}

// NewFromConfig picks the delivery backend: files on disk when DevDir is
// set, Postmark otherwise.
func NewFromConfig(cfg Config) (Sender, error) {
	if cfg.DevDir != "" {
		return NewDevSender(cfg.DevDir), nil
	}
	return NewPostmarkClient(cfg)
}

// Package logger builds log/slog loggers for the service.
//
// New assembles a JSON or text handler, attaches static attributes such as
// the service name and environment, and wraps the handler in a
// LogHandlerDecorator that pulls request-scoped attributes (request id) out
// of the context for every record.
//
//	log := logger.New(
//		logger.WithEnvironment(os.Getenv("APP_ENV"), "folio"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "passcode issued", logger.Flow("admin"), logger.Recipient(email))
//
// The attribute helpers in attr.go keep key names consistent across packages.
// Recipient masks email addresses; plaintext passcodes are never logged except
// by the explicit non-production delivery fallback.
package logger

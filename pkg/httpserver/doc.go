// Package httpserver runs an http.Handler with sane timeouts and drains it
// when the run context is cancelled. It also provides liveness and readiness
// handlers for the /healthz and /readyz endpoints.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
package httpserver

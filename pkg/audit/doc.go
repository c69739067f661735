// Package audit records who performed a sensitive action, on what, and
// whether it succeeded.
//
// A Logger fills request scoped fields (actor, request id, client IP) from
// the context through extractors and hands the event to a Storage:
//
//	auditLog := audit.NewLogger(audit.NewPostgresStorage(pool),
//		audit.WithRequestIDExtractor(requestid.FromContext),
//		audit.WithIPExtractor(clientip.FromContext),
//	)
//
//	_ = auditLog.Log(ctx, "project.delete", audit.WithResource("project", id))
//
// Audit writes never block the action they describe: callers log a failed
// write and carry on.
package audit

// Package gateway runs sensitive mutations behind a fresh passcode.
//
// Every guarded write follows the same steps: the caller already holds a
// grant, submits a passcode issued for the same flow, the passcode is
// consumed, and only then does the mutation run. A reused, expired or wrong
// code stops the request before anything changes. Each attempt lands in the
// audit log.
//
// Handlers opt in with the Guard decorator:
//
//	handler.Wrap(deleteProject,
//		handler.WithDecorators(gateway.Guard[deleteProjectRequest](gw, "project.delete", confirmFlow, gateway.GrantSubject)),
//	)
//
// or call Execute directly when the mutation is not a whole handler.
//
// HTTPError is the single place domain errors become HTTP responses; pass it
// to handler.NewErrorHandler.
package gateway

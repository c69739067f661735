// Package binder populates typed request structs from HTTP requests: JSON
// decodes the body strictly and Path copies router parameters into fields
// tagged `path:"..."`. Binders return wrapped sentinel errors that the
// handler layer reports as 400 responses.
package binder

// Package portfolio owns the user profile and the resources a public
// portfolio is built from: projects, education and work experience, plus
// the operator's showcase dataset edited from the admin area.
//
// Every change to an owned resource goes through OwnedResources, which
// loads the stored row first and refuses the change with ErrForbidden when
// it belongs to someone else. Deleting an account removes the user and all
// owned rows in one transaction.
//
// Public layouts are described by an embedded templates.yaml catalog; a
// profile may only select a template the catalog knows.
package portfolio

// Package admin mounts the operator area. The single configured admin signs
// in with an emailed passcode and receives a signed grant cookie. Every
// change to the showcase dataset additionally needs a fresh confirmation
// passcode, verified and consumed right before the write.
//
//	bridge := grant.NewBridge().
//		Route("/admin", issuer).
//		Public("/admin/auth")
//	r.Mount("/admin", admin.New(admin.Deps{...}).Handle())
package admin

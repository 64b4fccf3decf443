// Package libpos implements the client side of the WashPOS backend API.
// It covers authentication (password sign-in, session refresh, sign-out),
// the session lifecycle monitor and the REST resources used by the
// point-of-sale terminal.
package libpos

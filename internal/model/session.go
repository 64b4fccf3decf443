package model

import (
	"time"
)

// A Session represents a database record. The access token is a signed JWT
// and is not stored; ExpireAt bounds the refresh token lifetime.
type Session struct {
	Base `msgpack:",inline" storm:"inline"`

	ExpireAt     time.Time `msgpack:"expire_at"`
	UserID       string    `msgpack:"user_id"       storm:"index"`
	UserAgent    string    `msgpack:"user_agent"`
	RefreshToken string    `msgpack:"refresh_token" storm:"unique"`
}

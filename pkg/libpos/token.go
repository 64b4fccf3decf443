package libpos

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// IntrospectToken extracts the subject and expiry from a backend access
// token without verifying its signature. Verification belongs to the
// backend; the terminal only needs the registered claims to know who the
// grant is for and when it ends.
func IntrospectToken(token string) (subject string, expiresAt int64, err error) {
	var claims jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil {
		return "", 0, errors.Wrap(err, "could not parse access token")
	}

	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Unix()
	}
	return claims.Subject, expiresAt, nil
}

package poserror_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"washpos/internal/poserror"
)

func TestPOSError(t *testing.T) {
	err := poserror.New("some message")

	assert.Equal(t, "some message", err.Error())
	assert.Equal(t, http.StatusInternalServerError, poserror.StatusCode(err))

	err = poserror.NewWithTagCode(http.StatusUnauthorized, "invalid-auth", "Invalid login credentials.")
	assert.Equal(t, http.StatusUnauthorized, poserror.StatusCode(err))
}

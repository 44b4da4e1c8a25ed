package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NotFound("Client not found"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, http.StatusNotFound, KindOf(wrapped).Status())
	assert.Equal(t, KindServer, KindOf(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, KindOf(nil).Status())
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, KindValidation.Status())
	assert.Equal(t, http.StatusBadRequest, KindConflict.Status())
	assert.Equal(t, http.StatusUnauthorized, KindAuthentication.Status())
	assert.Equal(t, http.StatusForbidden, KindAuthorization.Status())
}

func TestMessageOf_HidesServerErrors(t *testing.T) {
	assert.Equal(t, "Serial number already exists", MessageOf(Conflict("Serial number already exists"), "Server error"))
	assert.Equal(t, "Server error", MessageOf(errors.New("pq: relation does not exist"), "Server error"))
	assert.Equal(t, "Server error", MessageOf(&Error{Kind: KindServer, Message: "insert failed", Err: errors.New("boom")}, "Server error"))
}

func TestErrorsIs_MatchesSentinel(t *testing.T) {
	sentinel := Validation("Machine does not exist")
	err := fmt.Errorf("assign: %w", Validation("Machine does not exist"))

	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, Validation("Client does not exist")))
}

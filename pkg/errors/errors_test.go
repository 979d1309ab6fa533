package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidArgumentNamesAllowedSet(t *testing.T) {
	err := InvalidArgument("entityType", "blimp", []string{"zone", "province", "department", "cluster", "school"})

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, ErrInvalidArgument.Code, err.Code)
	assert.Equal(t, `invalid entityType "blimp": must be one of zone, province, department, cluster, school`, err.Message)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrForbidden))
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	wrapped := fmt.Errorf("count sessions: %w", Clone(ErrForbidden, "nope"))
	assert.Equal(t, ErrForbidden.Code, FromError(wrapped).Code)

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.Status)
	assert.Nil(t, FromError(nil))
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOfWalksWrappedErrors(t *testing.T) {
	require.Equal(t, CodeFailedPrecondition, CodeOf(ErrNotEligible))
	require.Equal(t, CodeFailedPrecondition, CodeOf(fmt.Errorf("request unlock: %w", ErrNotEligible)))
	require.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
	require.Equal(t, CodeUnknown, CodeOf(nil))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{ErrEmptyMessage, http.StatusBadRequest},
		{ErrInvalidRating, http.StatusBadRequest},
		{ErrNotParticipant, http.StatusForbidden},
		{ErrMatchNotFound, http.StatusNotFound},
		{ErrProfileNotFound, http.StatusNotFound},
		{ErrDuplicateMatch, http.StatusConflict},
		{ErrNotEligible, http.StatusConflict},
		{ErrAlreadyRequested, http.StatusConflict},
		{ErrNoPendingRequest, http.StatusConflict},
		{ErrSelfResponse, http.StatusConflict},
		{ErrNotUnlocked, http.StatusConflict},
		{ErrAlreadyRated, http.StatusConflict},
		{ErrChannelArchived, http.StatusConflict},
		{ErrAIQuotaExhausted, http.StatusTooManyRequests},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, HTTPStatus(tc.err), "wrong status for %v", tc.err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("dynamodb unavailable")
	err := Wrap(CodeInternal, "failed to persist match", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, CodeInternal, CodeOf(err))
	require.Contains(t, err.Error(), "dynamodb unavailable")
}

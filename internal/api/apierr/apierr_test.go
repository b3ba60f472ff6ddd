package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"speen_backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.ErrInvalidDigit, http.StatusBadRequest},
		{model.ErrSectorRequired, http.StatusBadRequest},
		{model.ErrInsufficientFunds, http.StatusPaymentRequired},
		{model.ErrBoosterNotOwned, http.StatusConflict},
		{model.ErrAlreadyClaimed, http.StatusConflict},
		{fmt.Errorf("claim: %w", model.ErrLevelNotReady), http.StatusConflict},
		{model.ErrNotFound, http.StatusNotFound},
		{errors.New("db is down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		require.Equal(t, c.want, Status(c.err), c.err.Error())
	}
}

func TestWriteHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("pq: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "pq")
	require.Contains(t, rec.Body.String(), "internal error")
}

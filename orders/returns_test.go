package orders

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondReturnError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{ErrReturnState, http.StatusBadRequest, "Only delivered orders can be returned"},
		{ErrReturnExists, http.StatusBadRequest, "Order already has a return request"},
		{ErrReturnResolved, http.StatusBadRequest, "Return request already resolved"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		respondReturnError(rec, tc.err)
		assert.Equal(t, tc.code, rec.Code)
		assert.Contains(t, rec.Body.String(), tc.body)
	}
}

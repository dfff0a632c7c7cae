package errs

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func respond(t *testing.T, err error, production bool) (int, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, err, production)

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	return w.Code, body
}

func TestRespond_StatusByErrorType(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewValidation("bad input"), http.StatusBadRequest},
		{NewNotFound("no such thing"), http.StatusNotFound},
		{errors.New("storage exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, body := respond(t, tc.err, true)
		if status != tc.status {
			t.Fatalf("expected %d for %v, got %d", tc.status, tc.err, status)
		}
		if body.Message != tc.err.Error() {
			t.Fatalf("expected message %q, got %q", tc.err.Error(), body.Message)
		}
	}
}

func TestRespond_StackOnlyOutsideProduction(t *testing.T) {
	_, production := respond(t, NewValidation("bad input"), true)
	if production.Stack != "" {
		t.Fatal("production responses must not carry a stack trace")
	}

	_, development := respond(t, NewValidation("bad input"), false)
	if development.Stack == "" {
		t.Fatal("non-production responses must carry a stack trace")
	}
}

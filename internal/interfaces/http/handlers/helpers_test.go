package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"payportal.backend/internal/domain/entities"
	"payportal.backend/internal/interfaces/http/middleware"
	"payportal.backend/internal/interfaces/http/response"
)

var (
	testCustomer = entities.Actor{Username: "alice1", AccountNumber: "123456789", Role: entities.RoleCustomer}
	testEmployee = entities.Actor{Username: "emp1", Role: entities.RoleEmployee}
)

// newRouter returns a test engine. A non-zero caller is installed the way
// the auth middleware does it.
func newRouter(caller entities.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if caller.Username != "" {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ActorKey, caller)
			c.Next()
		})
	}
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

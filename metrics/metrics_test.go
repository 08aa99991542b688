package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsMatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/posts/:postId", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/posts/:postId", "200"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/abc", nil))

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/posts/:postId", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(relationToggles.WithLabelValues("like", "on"))
	RecordToggle("like", true)
	assert.Equal(t, before+1, testutil.ToFloat64(relationToggles.WithLabelValues("like", "on")))

	before = testutil.ToFloat64(uploads.WithLabelValues("cloudinary", "failure"))
	RecordUpload("cloudinary", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(uploads.WithLabelValues("cloudinary", "failure")))

	SetConnectedClients(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(wsClients))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	RecordCompensation("create_post", nil)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "social_relations_compensations_total"))
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(answersSubmitted.WithLabelValues(TriggerTimer))
	AnswerSubmitted(TriggerTimer)
	assert.Equal(t, before+1, testutil.ToFloat64(answersSubmitted.WithLabelValues(TriggerTimer)))

	started := testutil.ToFloat64(interviewsStarted)
	SessionStarted()
	assert.Equal(t, started+1, testutil.ToFloat64(interviewsStarted))

	completed := testutil.ToFloat64(interviewsCompleted)
	SessionCompleted(76.5)
	assert.Equal(t, completed+1, testutil.ToFloat64(interviewsCompleted))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `interview_http_requests_total{method="GET",path="/ping",status="204"}`))
}

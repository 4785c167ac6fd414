package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plainlaw-backend/retrieval"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/translations/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/translations/:id", "200"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/api/translations/abc-123", http.NoBody))
	require.Equal(t, http.StatusOK, rr.Code)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/translations/:id", "200"))
	assert.Equal(t, before+1, after)
	assert.Positive(t, testutil.CollectAndCount(httpRequestDuration))
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	tests := []struct {
		path   string
		label  string
		status string
	}{
		{"/ok", "/ok", "200"},
		{"/fail", "/fail", "500"},
		{"/missing", "unknown", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", tc.path, http.NoBody))

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.label, tc.status))
			assert.GreaterOrEqual(t, val, 1.0)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "unknown", normalizePath(""))
	assert.Equal(t, "/health", normalizePath("/health"))
}

func TestRetrievalObserver(t *testing.T) {
	RegisterRetrievalMetrics()
	RegisterRetrievalMetrics()

	obs := NewRetrievalObserver()
	matched := testutil.ToFloat64(RetrievalRequestsTotal.WithLabelValues(retrieval.OutcomeMatched))
	corpus := testutil.ToFloat64(RetrievalFailuresTotal.WithLabelValues(string(retrieval.KindCorpusRead)))

	obs.ObserveRetrieval(retrieval.OutcomeMatched, 42, 20*time.Millisecond)
	obs.ObserveFailure(retrieval.KindCorpusRead)

	assert.Equal(t, matched+1, testutil.ToFloat64(RetrievalRequestsTotal.WithLabelValues(retrieval.OutcomeMatched)))
	assert.Equal(t, corpus+1, testutil.ToFloat64(RetrievalFailuresTotal.WithLabelValues(string(retrieval.KindCorpusRead))))
	assert.Equal(t, 1, testutil.CollectAndCount(RetrievalCandidatesScored))
}

func TestRetrievalObserver_WiredIntoEngine(t *testing.T) {
	obs := NewRetrievalObserver()
	e := retrieval.NewEngine(retrieval.WithObserver(obs))
	skipped := testutil.ToFloat64(RetrievalRequestsTotal.WithLabelValues(retrieval.OutcomeSkipped))

	got := e.FindSimilarTranslations(t.Context(), nil, "curto", 3)

	assert.Empty(t, got)
	assert.Equal(t, skipped+1, testutil.ToFloat64(RetrievalRequestsTotal.WithLabelValues(retrieval.OutcomeSkipped)))
}

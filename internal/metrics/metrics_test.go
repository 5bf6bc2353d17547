package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/scenes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	for _, path := range []string{"/scenes/a", "/scenes/b", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reqErrors.WithLabelValues("GET", "/scenes/{id}", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.reqInflight))
	assert.Equal(t, 2, testutil.CollectAndCount(m.reqDuration))
}

func TestRenderStarted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	done := m.RenderStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendersInflight))
	done("completed")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.rendersInflight))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `soundmap_render_duration_seconds_count{status="completed"} 1`))
}

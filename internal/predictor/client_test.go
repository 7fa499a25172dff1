package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/water-insights/internal/models"
)

func TestHTTPClient_Predict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req predictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Testland", req.Country)
		assert.Equal(t, 2023, req.Year)

		w.Write([]byte(`{"predictions":{"lasso":120,"knn":118,"ridge":121},"baseline":{"year":2021,"consumption":110}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", time.Second)
	got, err := c.Predict(context.Background(), "Testland", 2023)
	require.NoError(t, err)
	assert.Equal(t, models.Predictions{Lasso: 120, KNN: 118, Ridge: 121}, got)
}

func TestHTTPClient_PredictFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"not found", http.StatusNotFound, `{"error":"No data available for country: Narnia"}`},
		{"garbage body", http.StatusOK, `not json`},
		{"missing predictions", http.StatusOK, `{"baseline":{"year":2021,"consumption":1}}`},
		{"missing model", http.StatusOK, `{"predictions":{"lasso":1,"knn":2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, time.Second).Predict(context.Background(), "Testland", 2023)
			assert.Error(t, err)
		})
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL, 20*time.Millisecond).Predict(context.Background(), "Testland", 2023)
	assert.Error(t, err)
}

func TestHTTPClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":"healthy","models_loaded":true,"dataset_loaded":true}`))
	}))
	defer srv.Close()

	assert.NoError(t, NewHTTPClient(srv.URL, time.Second).Health(context.Background()))

	srv.Close()
	assert.Error(t, NewHTTPClient(srv.URL, time.Second).Health(context.Background()))
}

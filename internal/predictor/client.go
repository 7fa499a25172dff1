package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mr1hm/water-insights/internal/models"
)

// HTTPClient calls the Predictor Service over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type predictRequest struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
}

type predictResponse struct {
	Predictions *struct {
		Lasso *float64 `json:"lasso"`
		KNN   *float64 `json:"knn"`
		Ridge *float64 `json:"ridge"`
	} `json:"predictions"`
	Baseline *struct {
		Year        int     `json:"year"`
		Consumption float64 `json:"consumption"`
	} `json:"baseline"`
}

var errMalformed = errors.New("malformed predictor response")

// Predict requests the three model predictions for country in year.
func (c *HTTPClient) Predict(ctx context.Context, country string, year int) (models.Predictions, error) {
	body, err := json.Marshal(predictRequest{Country: country, Year: year})
	if err != nil {
		return models.Predictions{}, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", bytes.NewReader(body))
	if err != nil {
		return models.Predictions{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Predictions{}, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Predictions{}, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return models.Predictions{}, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	p := data.Predictions
	if p == nil || p.Lasso == nil || p.KNN == nil || p.Ridge == nil {
		return models.Predictions{}, errMalformed
	}

	return models.Predictions{Lasso: *p.Lasso, KNN: *p.KNN, Ridge: *p.Ridge}, nil
}

// Health reports whether the Predictor Service answers its health endpoint.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mr1hm/water-insights/internal/dataset"
	"github.com/mr1hm/water-insights/internal/models"
)

func fetchHTTP(ctx context.Context, url string) (models.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	return dataset.Load(resp.Body)
}

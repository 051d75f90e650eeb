package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/frescolabs/storefront-api/internal/model"
)

// NewHTTPCatalogFetch returns a FetchFunc that GETs the catalog from url,
// expecting the same JSON shape the repository stores. Transport failures
// surface as errors so the caller can fall back to the seed; there are no
// retries.
func NewHTTPCatalogFetch(url string, timeout time.Duration) FetchFunc {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) ([]model.Product, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("build catalog request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch catalog: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch catalog: status %d", resp.StatusCode)
		}

		var products []model.Product
		if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
			return nil, fmt.Errorf("decode catalog response: %w", err)
		}
		return products, nil
	}
}

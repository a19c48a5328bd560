package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
)

// RemoteProduct mirrors one record of the remote demo catalog. Stock is not
// part of the remote payload; it is synthesized locally.
type RemoteProduct struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      RemoteRating    `json:"rating"`
}

// RemoteRating is the nested rating block of the remote payload.
type RemoteRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// RemoteClient fetches the product catalog from the public demo API.
type RemoteClient struct {
	baseURL string
	http    *http.Client
}

// NewRemoteClient builds a client for the configured catalog API.
func NewRemoteClient(cfg config.CatalogConfig) (*RemoteClient, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("catalog base url is required")
	}
	return &RemoteClient{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.FetchTimeout},
	}, nil
}

// FetchProducts retrieves the full remote catalog.
func (c *RemoteClient) FetchProducts(ctx context.Context) ([]RemoteProduct, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "building catalog request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching remote catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("remote catalog returned status %d", resp.StatusCode))
	}

	var products []RemoteProduct
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding remote catalog")
	}
	return products, nil
}

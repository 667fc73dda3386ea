package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cardhaus/deck-checker/internal/metrics"
)

const (
	// productsPageSize is the Shopify maximum for a products connection.
	productsPageSize = 250
	// variantsPerProduct bounds the nested variants connection.
	variantsPerProduct = 100
)

// ShopifyClient fetches the full product catalog from the Shopify Admin
// GraphQL API, one cursor page at a time.
type ShopifyClient struct {
	client     *http.Client
	tokens     *TokenCache
	domain     string
	apiVersion string
	limiter    *rate.Limiter
	baseURL    string // overridden in tests
}

// RawProduct is one product node as returned by the catalog query.
type RawProduct struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Featured struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	Variants struct {
		Edges []struct {
			Node RawVariant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// RawVariant is one variant node nested under a product.
type RawVariant struct {
	ID                string              `json:"id"`
	Price             string              `json:"price"`
	InventoryQuantity int                 `json:"inventoryQuantity"`
	SKU               string              `json:"sku"`
	SelectedOptions   []RawSelectedOption `json:"selectedOptions"`
}

// RawSelectedOption is a name/value pair on a variant, e.g.
// Condition=Near Mint.
type RawSelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type productsResponse struct {
	Data struct {
		Products struct {
			PageInfo struct {
				HasNextPage bool   `json:"hasNextPage"`
				EndCursor   string `json:"endCursor"`
			} `json:"pageInfo"`
			Edges []struct {
				Node RawProduct `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

var productsQuery = fmt.Sprintf(`
	query GetProducts($cursor: String) {
		products(first: %d, after: $cursor) {
			pageInfo { hasNextPage endCursor }
			edges { node {
				id title handle
				featuredImage { url }
				variants(first: %d) { edges { node {
					id price inventoryQuantity sku
					selectedOptions { name value }
				} } }
			} }
		}
	}
`, productsPageSize, variantsPerProduct)

func NewShopifyClient(tokens *TokenCache, domain, apiVersion string) *ShopifyClient {
	return &ShopifyClient{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens:     tokens,
		domain:     domain,
		apiVersion: apiVersion,
		// One page every 500ms keeps the fetch well under Shopify's
		// cost-based throttle for a query of this size.
		limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// FetchAllProducts pages through the whole catalog and returns every
// product. Any page failure aborts the fetch; no partial result is
// returned.
func (s *ShopifyClient) FetchAllProducts(ctx context.Context) ([]RawProduct, error) {
	var products []RawProduct
	var cursor *string
	page := 0

	for {
		page++
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("catalog fetch canceled: %w", err)
		}

		resp, err := s.fetchPage(ctx, cursor)
		if err != nil {
			metrics.ShopifyRequestsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		metrics.ShopifyRequestsTotal.WithLabelValues("success").Inc()

		for _, edge := range resp.Data.Products.Edges {
			products = append(products, edge.Node)
		}
		log.Printf("Shopify: fetched page %d (%d products so far)", page, len(products))

		if !resp.Data.Products.PageInfo.HasNextPage {
			break
		}
		end := resp.Data.Products.PageInfo.EndCursor
		if end == "" {
			return nil, &UpstreamError{API: "shopify", Message: fmt.Sprintf("hasNextPage with empty endCursor on page %d", page)}
		}
		cursor = &end
	}

	return products, nil
}

func (s *ShopifyClient) fetchPage(ctx context.Context, cursor *string) (*productsResponse, error) {
	token, err := s.tokens.GetAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	variables := map[string]interface{}{}
	if cursor != nil {
		variables["cursor"] = *cursor
	}

	body, err := json.Marshal(graphQLRequest{Query: productsQuery, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create graphql request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &UpstreamError{API: "shopify", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{API: "shopify", StatusCode: resp.StatusCode, Message: "catalog query failed"}
	}

	var page productsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &UpstreamError{API: "shopify", Message: fmt.Sprintf("failed to decode catalog response: %v", err)}
	}

	if len(page.Errors) > 0 {
		msgs := make([]string, len(page.Errors))
		for i, e := range page.Errors {
			msgs[i] = e.Message
		}
		return nil, &UpstreamError{API: "shopify", Message: strings.Join(msgs, "; ")}
	}

	return &page, nil
}

func (s *ShopifyClient) endpoint() string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", normalizeShopDomain(s.domain), s.apiVersion)
}

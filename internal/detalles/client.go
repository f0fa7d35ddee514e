package detalles

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultReadTimeout    = 30 * time.Second
)

var (
	errMissingEmbedded = errors.New("response has no _embedded.detalleVentaList")
)

// Options tunes the HTTP client used against detalle-ventas.
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// Client talks to the detalle-ventas microservice. Every exported operation
// is total: failures are logged and answered with an empty value.
type Client struct {
	baseURL string
	http    *resty.Client
	logger  *zap.Logger
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, opts Options, logger *zap.Logger) *Client {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ReadTimeout,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
	}

	baseURL = strings.TrimRight(baseURL, "/")
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTransport(otelhttp.NewTransport(transport)).
		SetTimeout(opts.ConnectTimeout+opts.ReadTimeout).
		SetHeader("Accept", "application/hal+json, application/json")

	return &Client{
		baseURL: baseURL,
		http:    rc,
		logger:  logger.With(zap.String("detalle_ventas_url", baseURL)),
	}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

// LineItemsForSale returns the line items of a sale, or none when the
// remote service cannot be reached or answers with something unexpected.
func (c *Client) LineItemsForSale(ctx context.Context, saleID uint64) []LineItem {
	return Fallback(c.logger, "line_items_for_sale", []LineItem{}, func() ([]LineItem, error) {
		return c.fetchLineItems(ctx, saleID)
	}).Value
}

// ProductStatistics returns the free-form product statistics, or an empty map.
func (c *Client) ProductStatistics(ctx context.Context) map[string]any {
	return Fallback(c.logger, "product_statistics", map[string]any{}, func() (map[string]any, error) {
		return c.fetchProductStatistics(ctx)
	}).Value
}

// TopSellingProducts returns the best sellers as reported remotely, or none.
func (c *Client) TopSellingProducts(ctx context.Context) []map[string]any {
	return Fallback(c.logger, "top_selling_products", []map[string]any{}, func() ([]map[string]any, error) {
		return c.fetchTopSelling(ctx)
	}).Value
}

// Available probes /actuator/health and is true only on 200.
func (c *Client) Available(ctx context.Context) bool {
	return Fallback(c.logger, "health", false, func() (bool, error) {
		return c.probeHealth(ctx)
	}).Value
}

func (c *Client) fetchLineItems(ctx context.Context, saleID uint64) ([]LineItem, error) {
	var env halEnvelope
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("saleId", strconv.FormatUint(saleID, 10)).
		SetResult(&env).
		Get("/detalles/venta/{saleId}")
	if err != nil {
		return nil, fmt.Errorf("GET detalles of sale %d: %w", saleID, err)
	}
	if code := res.StatusCode(); code < 200 || code > 299 {
		return nil, fmt.Errorf("GET detalles of sale %d: unexpected status %d", saleID, code)
	}
	if env.Embedded == nil || env.Embedded.LineItems == nil {
		return nil, errMissingEmbedded
	}

	items := make([]LineItem, 0, len(env.Embedded.LineItems))
	for _, r := range env.Embedded.LineItems {
		items = append(items, r.toLineItem())
	}
	return items, nil
}

func (c *Client) fetchProductStatistics(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/detalle-ventas/stats/productos")
	if err != nil {
		return nil, fmt.Errorf("GET product stats: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET product stats: unexpected status %d", res.StatusCode())
	}
	if stats == nil {
		stats = map[string]any{}
	}
	return stats, nil
}

func (c *Client) fetchTopSelling(ctx context.Context) ([]map[string]any, error) {
	var products []map[string]any
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&products).
		Get("/detalle-ventas/productos/mas-vendidos")
	if err != nil {
		return nil, fmt.Errorf("GET top selling products: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET top selling products: unexpected status %d", res.StatusCode())
	}
	if products == nil {
		products = []map[string]any{}
	}
	return products, nil
}

func (c *Client) probeHealth(ctx context.Context) (bool, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get("/actuator/health")
	if err != nil {
		return false, fmt.Errorf("GET health: %w", err)
	}
	return res.StatusCode() == http.StatusOK, nil
}

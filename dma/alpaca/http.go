package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gbkr-com/alpaca/env"
	"github.com/google/uuid"
)

// Client for the order management API. A Client holds no mutable state and
// is safe for concurrent use; each call is an independent round trip.
type Client struct {
	endpoint  *url.URL
	keyID     string
	secretKey string
	http      *http.Client
	logger    *slog.Logger
}

// An Option configures a [Client].
type Option func(*Client) error

// WithEndpoint sets the base URL, for example [LiveURL]. The default is
// [PaperURL].
func WithEndpoint(endpoint string) Option {
	return func(x *Client) error {
		u, err := url.Parse(endpoint)
		if err != nil {
			return err
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("endpoint %q is not an absolute URL", endpoint)
		}
		x.endpoint = u
		return nil
	}
}

// WithHTTPClient sets the [*http.Client]. The default has a timeout of
// [env.RequestTimeout].
func WithHTTPClient(client *http.Client) Option {
	return func(x *Client) error {
		if client == nil {
			return errors.New("nil http client")
		}
		x.http = client
		return nil
	}
}

// WithLogger sets a logger for debug output of each round trip. By default
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Client) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		x.logger = logger
		return nil
	}
}

// NewClient returns a [*Client] authenticating with the given key ID and
// secret key.
func NewClient(keyID, secretKey string, opts ...Option) (*Client, error) {

	if keyID == "" {
		return nil, errors.New("missing key id")
	}
	if secretKey == "" {
		return nil, errors.New("missing secret key")
	}

	endpoint, err := url.Parse(PaperURL)
	if err != nil {
		return nil, err
	}
	x := &Client{
		endpoint:  endpoint,
		keyID:     keyID,
		secretKey: secretKey,
		http:      &http.Client{Timeout: env.RequestTimeout},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(x); err != nil {
			return nil, err
		}
	}
	return x, nil
}

// GetAccount returns the [Account].
func (x *Client) GetAccount(ctx context.Context) (*Account, error) {
	req, err := x.newRequest(ctx, http.MethodGet, nil, nil, "v2", "account")
	if err != nil {
		return nil, err
	}
	account := &Account{}
	if err := x.roundTrip(req, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetOrders returns the orders matching the query. The zero [OrderQuery]
// uses the service's defaults, which is open orders only.
func (x *Client) GetOrders(ctx context.Context, query OrderQuery) ([]Order, error) {
	req, err := x.newRequest(ctx, http.MethodGet, query.values(), nil, "v2", "orders")
	if err != nil {
		return nil, err
	}
	var orders []Order
	if err := x.roundTrip(req, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns the order with the given ID.
func (x *Client) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	req, err := x.newRequest(ctx, http.MethodGet, nil, nil, "v2", "orders", id.String())
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err := x.roundTrip(req, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByClientID returns the order with the given client order ID.
func (x *Client) GetOrderByClientID(ctx context.Context, clientOrderID string) (*Order, error) {
	query := url.Values{"client_order_id": []string{clientOrderID}}
	req, err := x.newRequest(ctx, http.MethodGet, query, nil, "v2", "orders:by_client_order_id")
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err := x.roundTrip(req, order); err != nil {
		return nil, err
	}
	return order, nil
}

// SubmitOrder places a new order.
func (x *Client) SubmitOrder(ctx context.Context, request OrderRequest) (*Order, error) {
	req, err := x.newRequest(ctx, http.MethodPost, nil, request, "v2", "orders")
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err := x.roundTrip(req, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceOrder replaces the order with the given ID, returning the new order.
func (x *Client) ReplaceOrder(ctx context.Context, id uuid.UUID, replace OrderReplace) (*Order, error) {
	req, err := x.newRequest(ctx, http.MethodPatch, nil, replace, "v2", "orders", id.String())
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err := x.roundTrip(req, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder requests cancellation of the order with the given ID. The order
// is not removed: it transitions to canceled on the service.
func (x *Client) CancelOrder(ctx context.Context, id uuid.UUID) error {
	req, err := x.newRequest(ctx, http.MethodDelete, nil, nil, "v2", "orders", id.String())
	if err != nil {
		return err
	}
	return x.roundTrip(req, nil)
}

// CancelAllOrders requests cancellation of all open orders, returning the
// outcome for each order.
func (x *Client) CancelAllOrders(ctx context.Context) ([]CancelStatus, error) {
	req, err := x.newRequest(ctx, http.MethodDelete, nil, nil, "v2", "orders")
	if err != nil {
		return nil, err
	}
	b, err := x.send(req)
	if err != nil {
		return nil, err
	}
	var statuses []CancelStatus
	if len(bytes.TrimSpace(b)) == 0 {
		return statuses, nil
	}
	if err := json.Unmarshal(b, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// -----------------------------------------------------------------------------

// OrderQuery filters [Client.GetOrders]. Zero fields are not sent.
type OrderQuery struct {
	Status    string // "open", "closed" or "all".
	Limit     int
	After     time.Time
	Until     time.Time
	Direction string // "asc" or "desc".
	Nested    bool   // Roll up multi-leg orders under their parent.
	Symbols   []string
}

func (x OrderQuery) values() url.Values {
	values := url.Values{}
	if x.Status != "" {
		values.Set("status", x.Status)
	}
	if x.Limit > 0 {
		values.Set("limit", strconv.Itoa(x.Limit))
	}
	if !x.After.IsZero() {
		values.Set("after", x.After.UTC().Format(time.RFC3339Nano))
	}
	if !x.Until.IsZero() {
		values.Set("until", x.Until.UTC().Format(time.RFC3339Nano))
	}
	if x.Direction != "" {
		values.Set("direction", x.Direction)
	}
	if x.Nested {
		values.Set("nested", "true")
	}
	if len(x.Symbols) > 0 {
		values.Set("symbols", strings.Join(x.Symbols, ","))
	}
	return values
}

// CancelStatus is the outcome of cancelling one order in
// [Client.CancelAllOrders]. Status is an HTTP status code.
type CancelStatus struct {
	ID     uuid.UUID `json:"id"`
	Status int       `json:"status"`
}

// OK returns true if the cancellation was accepted.
func (x CancelStatus) OK() bool {
	return x.Status >= 200 && x.Status < 300
}

// -----------------------------------------------------------------------------

func (x *Client) newRequest(ctx context.Context, method string, query url.Values, body any, path ...string) (*http.Request, error) {

	u := x.endpoint.JoinPath(path...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}

	setRequestHeaders(req, x.keyID, x.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// send performs the round trip and returns the body of a 2xx response. Any
// other status is returned as an [*Error], or [ErrMalformedErrorBody].
func (x *Client) send(req *http.Request) ([]byte, error) {

	resp, err := x.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	x.logger.Debug("round trip", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, b)
	}
	return b, nil
}

func (x *Client) roundTrip(req *http.Request, out any) error {
	b, err := x.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(b, out)
}

func setRequestHeaders(request *http.Request, keyID, secretKey string) {
	request.Header.Set(KeyIDHeader, keyID)
	request.Header.Set(SecretKeyHeader, secretKey)
	request.Header.Set("Accept", "application/json")
}

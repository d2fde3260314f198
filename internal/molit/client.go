// Package molit provides a client for the public apartment trade-price
// lookup service on data.go.kr.
package molit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/antchfx/htmlquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/homebudget/homebudget/internal/model"
)

const (
	DefaultBaseURL        = "https://apis.data.go.kr/1613000/RTMSDataSvcAptTrade/getRTMSDataSvcAptTrade"
	DefaultRequestTimeout = 10 * time.Second
	defaultRows           = 1000
	maxBodySize           = 4 << 20 // 4 MB
	maxPages              = 10
)

var (
	// ErrUnauthorized indicates the service key was rejected.
	ErrUnauthorized = errors.New("molit: service key rejected")
	// ErrRateLimited indicates the daily request quota is spent.
	ErrRateLimited = errors.New("molit: request quota exceeded")
	// ErrNoData indicates the region and period have no trades.
	ErrNoData = errors.New("molit: no trades for region and period")
	// ErrUnreachable wraps transport failures.
	ErrUnreachable = errors.New("molit: service unreachable")
	// ErrUnsupported is returned for category/trade combinations the
	// client does not query.
	ErrUnsupported = errors.New("molit: unsupported query")
	// ErrResponseTooLarge is returned when a page exceeds the body limit.
	ErrResponseTooLarge = errors.New("molit: response too large")
)

// ServiceError is a non-success result code reported in the response body.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("molit: service error %s: %s", e.Code, e.Message)
}

// Client fetches apartment trades for a region and month.
type Client struct {
	serviceKey string
	baseURL    string
	timeout    time.Duration
	rows       int
	maxBody    int64
	http       *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithPageSize sets numOfRows per request.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.rows = n
		}
	}
}

// WithLogger receives warnings about incomplete results.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "molit").Logger() }
}

// NewClient creates a client for the given service key.
// Returns nil if the key is blank.
func NewClient(serviceKey string, opts ...Option) *Client {
	serviceKey = strings.TrimSpace(serviceKey)
	if serviceKey == "" {
		return nil
	}
	c := &Client{
		serviceKey: serviceKey,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultRequestTimeout,
		rows:       defaultRows,
		maxBody:    maxBodySize,
		http:       &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchTrades returns the trades for the query as ten-thousand-won rows.
// Pages are requested until totalCount rows are in hand, up to maxPages.
func (c *Client) FetchTrades(ctx context.Context, q Query) ([]model.RawListing, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var all []model.RawListing
	total := 0
	for page := 1; page <= maxPages; page++ {
		body, err := c.get(ctx, q, page)
		if err != nil {
			return nil, err
		}
		rows, count, err := parseTrades(body)
		if errors.Is(err, ErrNoData) && page > 1 {
			break
		}
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		total = max(count, len(all))
		if len(all) >= total || len(rows) < c.rows {
			break
		}
	}

	if len(all) < total {
		c.log.Warn().
			Str("region", q.RegionCode).
			Str("period", q.YearMonth).
			Int("fetched", len(all)).
			Int("total", total).
			Msg("trade list incomplete")
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, q Query, page int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("LAWD_CD", q.RegionCode)
	params.Set("DEAL_YMD", q.YearMonth)
	params.Set("pageNo", strconv.Itoa(page))
	params.Set("numOfRows", strconv.Itoa(c.rows))

	// data.go.kr issues keys already URL-encoded; pass them through verbatim.
	reqURL := c.baseURL + "?serviceKey=" + c.serviceKey + "&" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("molit: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")
	req.Header.Set("User-Agent", "github.com/homebudget/homebudget/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("molit: request timed out after %s: %w", c.timeout, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnreachable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("molit: reading response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, c.maxBody)
	}
	return body, nil
}

// parseTrades reads the XML body. The HTML parser lowercases element names
// and tolerates the self-closing empty elements the service emits, so every
// field is looked up as a descendant of its <item>. The second result is
// the service's totalCount, or 0 when absent.
func parseTrades(body []byte) ([]model.RawListing, int, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("molit: parsing response: %w", err)
	}

	if err := checkGatewayError(doc); err != nil {
		return nil, 0, err
	}

	switch code := text(doc, "//resultcode"); code {
	case "", "00", "000":
	case "03":
		return nil, 0, ErrNoData
	default:
		return nil, 0, &ServiceError{Code: code, Message: text(doc, "//resultmsg")}
	}

	items, err := htmlquery.QueryAll(doc, "//item")
	if err != nil {
		return nil, 0, fmt.Errorf("molit: querying items: %w", err)
	}
	if len(items) == 0 {
		return nil, 0, ErrNoData
	}

	rows := make([]model.RawListing, 0, len(items))
	for _, item := range items {
		rows = append(rows, parseItem(item))
	}
	total, _ := strconv.Atoi(text(doc, "//totalcount"))
	return rows, total, nil
}

// checkGatewayError maps the portal's authentication envelope
// (OpenAPI_ServiceResponse) to typed errors.
func checkGatewayError(doc *html.Node) error {
	reason := text(doc, "//returnreasoncode")
	if reason == "" {
		return nil
	}
	switch reason {
	case "00":
		return nil
	case "20", "30", "31", "32", "33":
		return ErrUnauthorized
	case "22":
		return ErrRateLimited
	default:
		return &ServiceError{Code: reason, Message: text(doc, "//returnauthmsg")}
	}
}

func parseItem(item *html.Node) model.RawListing {
	r := model.RawListing{
		Name: text(item, ".//aptnm"),
		Dong: text(item, ".//umdnm"),
		Fields: map[string]string{
			model.ColumnDealAmount: text(item, ".//dealamount"),
		},
	}

	if v, err := strconv.ParseFloat(text(item, ".//excluusear"), 64); err == nil {
		r.AreaM2 = &v
	}
	if v, err := strconv.Atoi(text(item, ".//floor")); err == nil {
		r.Floor = &v
	}

	year, yErr := strconv.Atoi(text(item, ".//dealyear"))
	month, mErr := strconv.Atoi(text(item, ".//dealmonth"))
	day, dErr := strconv.Atoi(text(item, ".//dealday"))
	if yErr == nil && mErr == nil && dErr == nil {
		d := civil.Date{Year: year, Month: time.Month(month), Day: day}
		if d.IsValid() {
			r.DealDate = &d
		}
	}
	return r
}

func text(top *html.Node, expr string) string {
	n := htmlquery.FindOne(top, expr)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.InnerText(n))
}

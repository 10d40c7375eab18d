package pitch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 8 * time.Second
	fallbackError  = "pitch service call failed"
)

type Client struct {
	baseURL string
	http    *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    resty.New().SetTimeout(timeout).SetLogger(zap.S().Named("resty")),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (info LeadInfo) queryParams() map[string]string {
	params := map[string]string{
		"urls":    info.Website,
		"name":    info.Name,
		"email":   info.Email,
		"phone":   info.Phone,
		"service": info.Service,
		"message": info.Message,
		"website": info.SourceWebsite,
	}
	for k, v := range params {
		if v == "" {
			delete(params, k)
		}
	}
	return params
}

// Dispatch sends one lead to the pitch service. It never returns an error:
// transport failures, timeouts and non-2xx answers all come back as a
// failed Result.
func (c *Client) Dispatch(ctx context.Context, info LeadInfo) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pitch dispatch panicked", zap.Any("panic", r))
			res = Result{Success: false, Error: fallbackError}
		}
	}()

	if c.baseURL == "" {
		return Result{Success: false, Error: "pitch service not configured"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(info.queryParams()).
		Get(c.baseURL)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallbackError
		}
		zap.L().Warn("pitch service unreachable", zap.String("website", info.Website), zap.Error(err))
		return Result{Success: false, Error: msg}
	}

	if !resp.IsSuccess() {
		zap.L().Warn("pitch service rejected lead",
			zap.String("website", info.Website),
			zap.Int("status", resp.StatusCode()),
		)
		return Result{Success: false, Error: fmt.Sprintf("pitch service responded %d", resp.StatusCode())}
	}

	return Result{Success: true}
}

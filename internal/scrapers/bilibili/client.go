// client.go contains the http plumbing for the bilibili web api, it knows
// nothing about which stats are kept in the snapshot.

package bilibili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"profilestats/internal/components/assert"
	"profilestats/internal/components/retry"
	"profilestats/internal/components/telemetry"
	"profilestats/internal/config"
	"profilestats/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_request = "client.request"
	report_client_auth    = "client.auth"
)

// Name is the source name used for the snapshot file and readme tokens.
const Name = "bilibili"

// webLocation is sent with every request the same way the space page does.
const webLocation = "333.1387"

var (
	// ErrAuthRequired is returned when an endpoint needs a logged in session (code -101).
	ErrAuthRequired = errors.New("bilibili: login required")
	// ErrRejected is returned when the api answers with a non-zero code.
	ErrRejected = errors.New("bilibili: request rejected")
	// ErrStatus is returned on an unexpected http status.
	ErrStatus = errors.New("bilibili: unexpected http status")
)

const codeNotLoggedIn = -101

type Client struct {
	Http *resty.Client

	uid    string
	cookie []*http.Cookie
	retry  retry.Policy
	tel    telemetry.API
}

// NewClient creates a client for the user configured in `cfg`. `output` may
// be nil, when it is not every http exchange is dumped to it.
func NewClient(cfg config.Bilibili, policy retry.Policy, output restyutil.Output, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(cfg.UID)

	tel = telemetry.NewScopedAPI("bilibili_scraper", tel)

	_, err := url.Parse(cfg.ApiUrl)
	if err != nil {
		return nil, fmt.Errorf("bilibili: parse api url: %w", err)
	}
	spaceUrl := strings.TrimSuffix(cfg.SpaceUrl, "/")

	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.ApiUrl)
	httpClient.SetHeaders(cfg.Headers)
	httpClient.SetHeader("Origin", spaceUrl)
	httpClient.SetHeader("Referer", fmt.Sprintf("%s/%s", spaceUrl, cfg.UID))
	httpClient.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "profilestats/bilibili", tel, output)

	var cookies []*http.Cookie
	if cfg.SessData != "" {
		cookies = append(cookies, &http.Cookie{Name: "SESSDATA", Value: cfg.SessData})
	}
	if cfg.BiliJct != "" {
		cookies = append(cookies, &http.Cookie{Name: "bili_jct", Value: cfg.BiliJct})
	}

	c := &Client{
		Http:   httpClient,
		uid:    cfg.UID,
		cookie: cookies,
		retry:  policy,
		tel:    tel,
	}
	return c, nil
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// transient reports whether a status is worth retrying.
func transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func decode[T any](res *resty.Response) (T, error) {
	var env envelope[T]
	err := json.Unmarshal(res.Body(), &env)
	if err != nil {
		return env.Data, fmt.Errorf("decode response: %w", err)
	}
	switch env.Code {
	case 0:
		return env.Data, nil
	case codeNotLoggedIn:
		return env.Data, fmt.Errorf("%w: %s", ErrAuthRequired, env.Message)
	default:
		return env.Data, fmt.Errorf("%w: code %d: %s", ErrRejected, env.Code, env.Message)
	}
}

// get requests `path` under the retry policy and unwraps the {code, message, data}
// envelope. only network errors, 429 and 5xx responses are retried.
func get[T any](ctx context.Context, c *Client, path string, query map[string]string, auth bool) (T, error) {
	var out T
	err := c.retry.Do(
		ctx,
		func(attempt int) error {
			req := c.Http.R().
				SetContext(ctx).
				SetQueryParams(query).
				SetQueryParam("web_location", webLocation)
			if auth {
				req.SetCookies(c.cookie)
			}

			res, err := req.Get(path)
			if err != nil {
				return err
			}
			if transient(res.StatusCode()) {
				return fmt.Errorf("%w: %s", ErrStatus, res.Status())
			}
			if !res.IsSuccess() {
				return retry.Permanent(fmt.Errorf("%w: %s", ErrStatus, res.Status()))
			}

			data, err := decode[T](res)
			if err != nil {
				return retry.Permanent(err)
			}
			out = data
			return nil
		},
		func(err error, attempt int, next time.Duration) {
			c.tel.ReportWarning(
				report_client_request,
				fmt.Errorf("%s attempt %d/%d: %w", path, attempt, c.retry.MaxAttempts, err),
				"retrying in", next.String(),
			)
		},
	)
	if err != nil {
		return out, fmt.Errorf("bilibili: get %s: %w", path, err)
	}
	return out, nil
}

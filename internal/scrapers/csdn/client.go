// client.go fetches the public csdn profile page, the stats themselves are
// read out of the html by the extractor in extract.go.

package csdn

import (
	"context"
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
	"profilestats/internal/landmark"
	"profilestats/internal/snapshot"
	"profilestats/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_profile = "client.profile"
	report_client_browser = "client.browser"
	report_client_extract = "client.extract"
)

// Name is the source name used for the snapshot file and readme tokens.
const Name = "csdn"

var (
	// ErrAntiBot is returned when the response is an anti-bot interstitial.
	ErrAntiBot = errors.New("csdn: blocked by anti-bot challenge")
	// ErrStatus is returned on an unexpected http status.
	ErrStatus = errors.New("csdn: unexpected http status")
	// ErrNoStats is returned when the page contains none of the known landmarks.
	ErrNoStats = errors.New("csdn: no stats found on profile page")
)

type Client struct {
	Http       *resty.Client
	ProfileUrl string
	// Renderer is used once every http attempt was blocked by an anti-bot
	// challenge. nil disables the fallback.
	Renderer Renderer

	extractor landmark.Extractor
	retry     retry.Policy
	tel       telemetry.API
}

// NewClient creates a client for the profile configured in `cfg`. `output`
// may be nil, when it is not every http exchange is dumped to it.
func NewClient(cfg config.Csdn, policy retry.Policy, output restyutil.Output, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(cfg.Username)

	tel = telemetry.NewScopedAPI("csdn_scraper", tel)

	profileUrl, err := url.JoinPath(cfg.BlogUrl, cfg.Username)
	if err != nil {
		return nil, fmt.Errorf("csdn: build profile url: %w", err)
	}

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeaders(cfg.Headers)
	httpClient.SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, "profilestats/csdn", tel, output)

	c := &Client{
		Http:       httpClient,
		ProfileUrl: profileUrl,
		extractor:  DefaultExtractor,
		retry:      policy,
		tel:        tel,
	}
	return c, nil
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) Tracked() []string {
	return Fields
}

func transient(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Profile returns the html of the profile page. interstitials, network
// errors, 429 and 5xx responses are retried.
func (c *Client) Profile(ctx context.Context) (string, error) {
	var page string
	err := c.retry.Do(
		ctx,
		func(attempt int) error {
			res, err := c.Http.R().
				SetContext(ctx).
				Get(c.ProfileUrl)
			if err != nil {
				return err
			}

			body, err := decodeBody(res.Header().Get("Content-Encoding"), res.Body())
			if err != nil {
				return retry.Permanent(err)
			}
			text := string(body)

			if isChallenge(text) {
				return fmt.Errorf("%w (%s)", ErrAntiBot, res.Status())
			}
			if transient(res.StatusCode()) {
				return fmt.Errorf("%w: %s", ErrStatus, res.Status())
			}
			if !res.IsSuccess() {
				return retry.Permanent(fmt.Errorf("%w: %s", ErrStatus, res.Status()))
			}

			page = text
			return nil
		},
		func(err error, attempt int, next time.Duration) {
			c.tel.ReportWarning(
				report_client_profile,
				fmt.Errorf("attempt %d/%d: %w", attempt, c.retry.MaxAttempts, err),
				"retrying in", next.String(),
			)
		},
	)
	if err != nil {
		return "", fmt.Errorf("csdn: get profile: %w", err)
	}
	return page, nil
}

func (c *Client) render(ctx context.Context) (string, error) {
	c.tel.ReportDebug(report_client_browser, "rendering profile in browser", c.ProfileUrl)
	page, err := c.Renderer.Render(ctx, c.ProfileUrl)
	if err != nil {
		return "", fmt.Errorf("csdn: render profile: %w", err)
	}
	if isChallenge(page) {
		return "", fmt.Errorf("csdn: render profile: %w", ErrAntiBot)
	}
	return page, nil
}

// Fetch reads every stat it can find on the profile page. a stat whose
// landmark is missing is left out.
func (c *Client) Fetch(ctx context.Context) (snapshot.Fields, error) {
	page, err := c.Profile(ctx)
	if errors.Is(err, ErrAntiBot) && c.Renderer != nil {
		c.tel.ReportWarning(report_client_profile, err, "falling back to browser")
		page, err = c.render(ctx)
	}
	if err != nil {
		c.tel.ReportBroken(report_client_profile, err)
		return snapshot.Fields{}, err
	}

	found := c.extractor.Extract(page)
	fields := snapshot.Fields(found)

	var missing []string
	for _, field := range Fields {
		if _, ok := fields[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(fields) == 0 {
		c.tel.ReportBroken(report_client_extract, ErrNoStats)
		return fields, ErrNoStats
	}
	if len(missing) > 0 {
		c.tel.ReportWarning(report_client_extract, "landmarks not found", strings.Join(missing, ", "))
	}
	return fields, nil
}

package csdn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"profilestats/internal/components/retry"
	"profilestats/internal/components/telemetry/telemetrytest"
	"profilestats/internal/config"
	"profilestats/internal/snapshot"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const profilePage = `<!DOCTYPE html>
<html><head><title>tester的博客_CSDN博客</title></head><body>
<div class="user-profile-head-info-r-c">
  <ul>
    <li>
      <div class="user-profile-statistics-num">30,527</div>
      <div class="user-profile-statistics-name">总访问量</div>
    </li>
    <li>
      <div class="user-profile-statistics-num">64</div>
      <div class="user-profile-statistics-name">原创</div>
    </li>
    <li>
      <div class="user-profile-statistics-num">1,203</div>
      <div class="user-profile-statistics-name">粉丝</div>
    </li>
  </ul>
</div>
<div class="user-profile-achievement">
  <div>获得<span>689</span>次点赞</div>
  <div>获得<span>1,024</span>次收藏</div>
</div>
</body></html>`

const challengePage = `<!DOCTYPE html><html><head><title>Just a moment...</title></head>
<body><script src="/cdn-cgi/challenge-platform/h/g/orchestrate/jsch/v1"></script></body></html>`

var testPolicy = retry.Policy{MaxAttempts: 3, Delay: time.Millisecond}

type fakeBlog struct {
	mu      sync.Mutex
	hits    int
	handler func(w http.ResponseWriter, hit int)
}

func (f *fakeBlog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/tester" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	f.mu.Lock()
	f.hits++
	hit := f.hits
	f.mu.Unlock()
	f.handler(w, hit)
}

func serve(encoding string, status int, body []byte) func(w http.ResponseWriter, hit int) {
	return func(w http.ResponseWriter, _ int) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		if encoding != "" {
			w.Header().Set("content-encoding", encoding)
		}
		w.WriteHeader(status)
		w.Write(body)
	}
}

type fakeRenderer struct {
	page  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.page, f.err
}

func newTestClient(t *testing.T, blog *fakeBlog) (*Client, *telemetrytest.Recorder) {
	server := httptest.NewServer(blog)
	t.Cleanup(server.Close)

	rec := &telemetrytest.Recorder{}
	client, err := NewClient(config.Csdn{
		Username:       "tester",
		BlogUrl:        server.URL,
		TimeoutSeconds: 5,
		Headers: map[string]string{
			"User-Agent":      "profilestats-test",
			"Accept-Encoding": "gzip, deflate, br",
		},
	}, testPolicy, nil, rec)
	require.NoError(t, err)
	return client, rec
}

var allFields = snapshot.Fields{
	FieldViews:    30527,
	FieldOriginal: 64,
	FieldFans:     1203,
	FieldLikes:    689,
	FieldCollect:  1024,
}

func TestFetch(t *testing.T) {
	for _, encoding := range []string{"", "br", "zstd", "deflate"} {
		t.Run("encoding "+encoding, func(t *testing.T) {
			blog := &fakeBlog{handler: serve(encoding, http.StatusOK, compress(t, encoding, []byte(profilePage)))}
			client, rec := newTestClient(t, blog)

			fields, err := client.Fetch(context.Background())
			require.NoError(t, err)
			if diff := cmp.Diff(allFields, fields); diff != "" {
				t.Fatal("unexpected fields", diff)
			}
			require.Equal(t, 1, blog.hits)
			require.Empty(t, rec.Reports(telemetrytest.KindWarning))
			require.Empty(t, rec.Reports(telemetrytest.KindBroken))
		})
	}
}

func TestFetchPartial(t *testing.T) {
	page := `<html><body>获得<span>689</span>次点赞
	<dl><dd><span id="fan">17</span></dd><dt>粉丝</dt></dl></body></html>`
	blog := &fakeBlog{handler: serve("", http.StatusOK, []byte(page))}
	client, rec := newTestClient(t, blog)

	fields, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, snapshot.Fields{FieldLikes: 689, FieldFans: 17}, fields)
	require.True(t, rec.Contains(telemetrytest.KindWarning, "collect, original, views"))
}

func TestFetchNoStats(t *testing.T) {
	blog := &fakeBlog{handler: serve("", http.StatusOK, []byte("<html><body>maintenance</body></html>"))}
	client, rec := newTestClient(t, blog)

	fields, err := client.Fetch(context.Background())
	require.ErrorIs(t, err, ErrNoStats)
	require.Empty(t, fields)
	require.True(t, rec.Contains(telemetrytest.KindBroken, report_client_extract))
}

func TestFetchRetriesChallenge(t *testing.T) {
	blog := &fakeBlog{handler: func(w http.ResponseWriter, hit int) {
		if hit == 1 {
			serve("", http.StatusForbidden, []byte(challengePage))(w, hit)
			return
		}
		serve("", http.StatusOK, []byte(profilePage))(w, hit)
	}}
	client, rec := newTestClient(t, blog)

	fields, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, allFields, fields)
	require.Equal(t, 2, blog.hits)
	require.True(t, rec.Contains(telemetrytest.KindWarning, "anti-bot"))
}

func TestFetchChallengeBrowserFallback(t *testing.T) {
	blog := &fakeBlog{handler: serve("", http.StatusServiceUnavailable, []byte(challengePage))}
	client, _ := newTestClient(t, blog)
	renderer := &fakeRenderer{page: profilePage}
	client.Renderer = renderer

	fields, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, allFields, fields)
	require.Equal(t, testPolicy.MaxAttempts, blog.hits)
	require.Equal(t, 1, renderer.calls)
}

func TestFetchChallengeWithoutFallback(t *testing.T) {
	blog := &fakeBlog{handler: serve("", http.StatusOK, []byte(challengePage))}
	client, rec := newTestClient(t, blog)

	fields, err := client.Fetch(context.Background())
	require.ErrorIs(t, err, ErrAntiBot)
	require.Empty(t, fields)
	require.Equal(t, testPolicy.MaxAttempts, blog.hits)
	require.True(t, rec.Contains(telemetrytest.KindBroken, report_client_profile))
}

func TestFetchBrowserFallbackFails(t *testing.T) {
	blog := &fakeBlog{handler: serve("", http.StatusOK, []byte(challengePage))}
	client, _ := newTestClient(t, blog)
	client.Renderer = &fakeRenderer{err: errors.New("chrome not found")}

	_, err := client.Fetch(context.Background())
	require.ErrorContains(t, err, "chrome not found")
}

func TestFetchPermanentStatus(t *testing.T) {
	blog := &fakeBlog{handler: serve("", http.StatusNotFound, []byte("<html>gone</html>"))}
	client, _ := newTestClient(t, blog)
	client.Renderer = &fakeRenderer{page: profilePage}

	_, err := client.Fetch(context.Background())
	require.ErrorIs(t, err, ErrStatus)
	require.Equal(t, 1, blog.hits)
}

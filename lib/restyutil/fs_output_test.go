package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	require.NoError(t, os.MkdirAll(dir, 0777))
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	out.Write("1", "hello")

	contents, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(contents))
}

func TestFilesystemOutputKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "bilibili-stats.json")
	require.NoError(t, os.WriteFile(snapshot, []byte(`{"follower":1}`), 0600))

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	out.Write("1", "hello")

	contents, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	require.Equal(t, `{"follower":1}`, string(contents))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestWithPrefix(t *testing.T) {
	require.Nil(t, WithPrefix("bilibili", nil))

	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	WithPrefix("csdn", out).Write("3", "hello")

	_, err = os.Stat(filepath.Join(dir, "csdn-3.txt"))
	require.NoError(t, err)
}

func TestFormatMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	res, err := resty.New().R().SetHeader("X-Req", "1").Get(server.URL + "/pot")
	require.NoError(t, err)

	message := FormatMessage(res)
	require.Contains(t, message, "GET "+server.URL+"/pot")
	require.Contains(t, message, "X-Req: 1")
	require.Contains(t, message, "418 ")
	require.Contains(t, message, "X-Test: yes")
	require.Contains(t, message, "short and stout")
	require.Contains(t, message, "<NO BODY>")
}

func TestFormatMessageRedactsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	res, err := resty.New().R().
		SetCookie(&http.Cookie{Name: "SESSDATA", Value: "secret-session"}).
		SetCookie(&http.Cookie{Name: "bili_jct", Value: "secret-csrf"}).
		Get(server.URL)
	require.NoError(t, err)

	message := FormatMessage(res)
	require.NotContains(t, message, "secret-session")
	require.NotContains(t, message, "secret-csrf")
	require.Contains(t, message, "Cookie: <REDACTED>")
}

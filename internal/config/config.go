// Package config holds the immutable configuration handed to every component.
package config

import (
	"errors"
	"os"
	"time"

	"profilestats/internal/components/retry"
	"profilestats/lib/configutil"
	"profilestats/lib/textutil"
)

const (
	DefaultFile = "profilestats.json5"

	EnvBiliSessdata = "BILI_SESSDATA"
	EnvBiliJct      = "BILI_BILI_JCT"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36"

type Retry struct {
	MaxAttempts  int     `json:"max_attempts"`
	DelaySeconds float64 `json:"delay_seconds"`
}

func (r Retry) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts: r.MaxAttempts,
		Delay:       time.Duration(r.DelaySeconds * float64(time.Second)),
	}
}

type Bilibili struct {
	UID            string            `json:"uid"`
	ApiUrl         string            `json:"api_url"`
	SpaceUrl       string            `json:"space_url"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	Headers        map[string]string `json:"headers"`

	// SessData and BiliJct only ever come from the environment.
	SessData string `json:"-"`
	BiliJct  string `json:"-"`
}

// HasCredentials reports whether any session cookie is configured.
func (b Bilibili) HasCredentials() bool {
	return b.SessData != "" || b.BiliJct != ""
}

type Csdn struct {
	Username        string            `json:"username"`
	BlogUrl         string            `json:"blog_url"`
	TimeoutSeconds  int               `json:"timeout_seconds"`
	Headers         map[string]string `json:"headers"`
	BrowserFallback bool              `json:"browser_fallback"`
}

type Paths struct {
	DataDir   string `json:"data_dir"`
	AssetsDir string `json:"assets_dir"`
	Readme    string `json:"readme"`
}

// Token binds a README placeholder to a snapshot field.
type Token struct {
	Source string `json:"source"`
	Field  string `json:"field"`
}

type Config struct {
	Paths    Paths            `json:"paths"`
	Retry    Retry            `json:"retry"`
	Bilibili Bilibili         `json:"bilibili"`
	Csdn     Csdn             `json:"csdn"`
	Tokens   map[string]Token `json:"tokens"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   "data",
			AssetsDir: "assets",
			Readme:    "README.md",
		},
		Retry: Retry{MaxAttempts: 3, DelaySeconds: 5},
		Bilibili: Bilibili{
			UID:            "3546602400647622",
			ApiUrl:         "https://api.bilibili.com",
			SpaceUrl:       "https://space.bilibili.com",
			TimeoutSeconds: 10,
			Headers: map[string]string{
				"User-Agent":      defaultUserAgent,
				"Accept":          "*/*",
				"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
				"Sec-Fetch-Dest":  "empty",
				"Sec-Fetch-Mode":  "cors",
				"Sec-Fetch-Site":  "same-site",
			},
		},
		Csdn: Csdn{
			Username:       "2301_78856868",
			BlogUrl:        "https://blog.csdn.net",
			TimeoutSeconds: 15,
			Headers: map[string]string{
				"User-Agent":                defaultUserAgent,
				"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
				"Accept-Language":           "zh-CN,zh;q=0.9,en;q=0.8",
				"Accept-Encoding":           "gzip, deflate, br",
				"Connection":                "keep-alive",
				"Upgrade-Insecure-Requests": "1",
				"Sec-Fetch-Dest":            "document",
				"Sec-Fetch-Mode":            "navigate",
				"Sec-Fetch-Site":            "none",
				"Cache-Control":             "max-age=0",
			},
		},
		Tokens: map[string]Token{
			"BILIBILI_FOLLOWER":  {Source: "bilibili", Field: "follower"},
			"BILIBILI_VIEWS":     {Source: "bilibili", Field: "views"},
			"BILIBILI_LIKES":     {Source: "bilibili", Field: "likes"},
			"BILIBILI_CREATIONS": {Source: "bilibili", Field: "creations"},
			"CSDN_FANS":          {Source: "csdn", Field: "fans"},
			"CSDN_LIKES":         {Source: "csdn", Field: "likes"},
			"CSDN_COLLECT":       {Source: "csdn", Field: "collect"},
			"CSDN_ORIGINAL":      {Source: "csdn", Field: "original"},
			"CSDN_VIEWS":         {Source: "csdn", Field: "views"},
		},
	}
}

// Load reads `path` (and its .local override) on top of Default and fills in
// the secrets from the environment. a missing file is not an error.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg, err := configutil.ReadConfig(path, Default())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg.Bilibili.SessData = textutil.StripWhitespace(getenv(EnvBiliSessdata))
	cfg.Bilibili.BiliJct = textutil.StripWhitespace(getenv(EnvBiliJct))
	return cfg, nil
}

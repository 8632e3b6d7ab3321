package csdn

import "strings"

// challengeMarkers are fragments only found on anti-bot interstitials, never
// on a real profile page. the passive bot detection script cloudflare injects
// into normal pages lives under /cdn-cgi/challenge-platform/scripts/ and must
// not match.
var challengeMarkers = []string{
	"Just a moment...",
	"cf-browser-verification",
	"/cdn-cgi/challenge-platform/h/",
	"cf_chl_opt",
	"安全验证",
}

// isChallenge reports whether `page` is an anti-bot interstitial instead of
// the requested page.
func isChallenge(page string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(page, marker) {
			return true
		}
	}
	return false
}

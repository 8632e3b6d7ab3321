package landmark

import (
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const profilePage = `<html><body>
<div class="user-profile-head-info-r-c">
  <ul>
    <li>
      <div class="user-profile-statistics-num"><span class="user-profile-statistics-num">12,345</span></div>
      <div class="user-profile-statistics-name">总访问量</div>
    </li>
    <li>
      <div class="user-profile-statistics-num">88</div>
      <div class="user-profile-statistics-name"> 原创 </div>
    </li>
    <li>
      <div class="user-profile-statistics-num">1,024</div>
      <div class="user-profile-statistics-name">粉丝</div>
    </li>
    <li>
      <div class="user-profile-statistics-num">7</div>
      <div class="user-profile-statistics-name">排名</div>
    </li>
  </ul>
</div>
<div class="user-achievement">获得<span>2,048</span>次点赞 获得<span>512</span>次收藏</div>
</body></html>`

var testLabels = LabelExtractor{
	Labels: []Label{
		{Field: "views", Text: "总访问量"},
		{Field: "original", Text: "原创"},
		{Field: "fans", Text: "粉丝"},
	},
	LabelSelector: ".user-profile-statistics-name",
	ValueSelector: ".user-profile-statistics-num",
}

var testPatterns = PatternExtractor{
	{Field: "likes", Regexp: regexp.MustCompile(`获得<span>([0-9,]+)</span>次点赞`)},
	{Field: "collect", Regexp: regexp.MustCompile(`获得<span>([0-9,]+)</span>次收藏`)},
	{Field: "fans", Regexp: regexp.MustCompile(`<dd><span id="fan">(\d+)</span></dd>\s*<dt>粉丝</dt>`)},
}

func TestParseCount(t *testing.T) {
	testCases := []struct {
		in    string
		value int64
		ok    bool
	}{
		{in: "0", value: 0, ok: true},
		{in: "12,345", value: 12345, ok: true},
		{in: " 1,024\n", value: 1024, ok: true},
		{in: "", ok: false},
		{in: "1.2万", ok: false},
		{in: "abc", ok: false},
	}

	for _, test := range testCases {
		t.Run(test.in, func(t *testing.T) {
			value, ok := ParseCount(test.in)
			require.Equal(t, test.ok, ok)
			require.Equal(t, test.value, value)
		})
	}
}

func TestLabelExtractor(t *testing.T) {
	got := testLabels.Extract(profilePage)
	expected := Fields{"views": 12345, "original": 88, "fans": 1024}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal("unexpected fields", diff)
	}
}

func TestLabelExtractorMissingLandmark(t *testing.T) {
	got := testLabels.Extract(`<div><div class="user-profile-statistics-name">粉丝</div></div>`)
	require.Empty(t, got)

	got = testLabels.Extract("not html at all")
	require.Empty(t, got)
}

func TestPatternExtractor(t *testing.T) {
	got := testPatterns.Extract(profilePage)
	expected := Fields{"likes": 2048, "collect": 512}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal("unexpected fields", diff)
	}

	legacy := `<dl><dd><span id="fan">31</span></dd>
	<dt>粉丝</dt></dl>`
	got = testPatterns.Extract(legacy)
	require.Equal(t, Fields{"fans": 31}, got)
}

func TestChainFirstWins(t *testing.T) {
	page := profilePage + `<dd><span id="fan">5</span></dd><dt>粉丝</dt>`
	got := Chain{testLabels, testPatterns}.Extract(page)
	expected := Fields{
		"views":    12345,
		"original": 88,
		"fans":     1024,
		"likes":    2048,
		"collect":  512,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatal("unexpected fields", diff)
	}

	got = Chain{testPatterns, testLabels}.Extract(page)
	require.Equal(t, int64(5), got["fans"])
}

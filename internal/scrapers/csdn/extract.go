package csdn

import (
	"regexp"

	"profilestats/internal/landmark"
)

// snapshot field names
const (
	FieldFans     = "fans"
	FieldLikes    = "likes"
	FieldCollect  = "collect"
	FieldOriginal = "original"
	FieldViews    = "views"
)

// Fields are the stats tracked for csdn, in the order they are shown.
var Fields = []string{FieldFans, FieldLikes, FieldCollect, FieldOriginal, FieldViews}

// profileLabels reads the statistics block of the current profile layout.
var profileLabels = landmark.LabelExtractor{
	Labels: []landmark.Label{
		{Field: FieldViews, Text: "总访问量"},
		{Field: FieldOriginal, Text: "原创"},
		{Field: FieldFans, Text: "粉丝"},
	},
	LabelSelector: ".user-profile-statistics-name",
	ValueSelector: ".user-profile-statistics-num",
}

var achievementPatterns = landmark.PatternExtractor{
	{Field: FieldLikes, Regexp: regexp.MustCompile(`获得<span>([0-9,]+)</span>次点赞`)},
	{Field: FieldCollect, Regexp: regexp.MustCompile(`获得<span>([0-9,]+)</span>次收藏`)},
}

// legacyPatterns match the <dd>N</dd><dt>label</dt> layout older profile
// pages still use.
var legacyPatterns = landmark.PatternExtractor{
	{Field: FieldOriginal, Regexp: regexp.MustCompile(`<dd><span[^>]*>([0-9,]+)</span></dd>\s*<dt>原创</dt>`)},
	{Field: FieldLikes, Regexp: regexp.MustCompile(`<dd>([0-9,]+)</dd>\s*<dt>点赞</dt>`)},
	{Field: FieldCollect, Regexp: regexp.MustCompile(`<dd>([0-9,]+)</dd>\s*<dt>收藏</dt>`)},
	{Field: FieldFans, Regexp: regexp.MustCompile(`<dd><span id="fan">([0-9,]+)</span></dd>\s*<dt>粉丝</dt>`)},
}

// DefaultExtractor tries the current layout first and falls back to the
// legacy one field by field.
var DefaultExtractor = landmark.Chain{
	profileLabels,
	achievementPatterns,
	legacyPatterns,
}

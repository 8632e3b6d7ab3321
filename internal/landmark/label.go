package landmark

import (
	"strings"

	"profilestats/lib/htmlutil"
	"profilestats/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Label is a landmark expressed as the exact text of a label element.
type Label struct {
	Field string
	Text  string
}

// LabelExtractor finds label elements by selector and reads the count from
// the value element that sits in the same container.
//
//	<div class="item">
//	  <div class="num">1,024</div>
//	  <div class="name">原创</div>
//	</div>
type LabelExtractor struct {
	Labels        []Label
	LabelSelector string
	ValueSelector string
}

func (l LabelExtractor) valueNear(label *goquery.Selection) (int64, bool) {
	candidates := []*goquery.Selection{
		label.PrevAll().Filter(l.ValueSelector),
		label.Siblings().Filter(l.ValueSelector),
		label.Parent().Find(l.ValueSelector),
	}
	for _, candidate := range candidates {
		if candidate.Length() == 0 {
			continue
		}
		// PrevAll is ordered closest first.
		value, ok := ParseCount(htmlutil.GetText(candidate.Nodes[0]))
		if ok {
			return value, true
		}
	}
	return 0, false
}

func (l LabelExtractor) Extract(page string) Fields {
	out := Fields{}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return out
	}

	wanted := map[string]string{}
	for _, label := range l.Labels {
		wanted[label.Text] = label.Field
	}

	doc.Find(l.LabelSelector).Each(func(_ int, s *goquery.Selection) {
		if len(s.Nodes) == 0 {
			return
		}
		text := textutil.NormalizeLabel(htmlutil.GetText(s.Nodes[0]))
		field, ok := wanted[text]
		if !ok {
			return
		}
		if _, found := out[field]; found {
			return
		}
		value, ok := l.valueNear(s)
		if !ok {
			return
		}
		out[field] = value
	})

	return out
}

// Package badge renders snapshot records into fixed layout svg cards.
package badge

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"profilestats/internal/components/assert"
	"profilestats/internal/components/telemetry"
	"profilestats/internal/render"
	"profilestats/internal/scrapers/bilibili"
	"profilestats/internal/scrapers/csdn"
	"profilestats/internal/snapshot"
)

const (
	report_generate = "generate"
)

//go:embed card.svg.tmpl
var cardTemplateText string

var cardTemplate = template.Must(template.New("card").Parse(cardTemplateText))

// Row is a single labeled stat on a card.
type Row struct {
	Label string
	Field string
}

// Card describes the layout of a badge for one source.
type Card struct {
	// Source is the snapshot the card is rendered from.
	Source string
	// File is the name of the svg written to the output directory.
	File   string
	Title  string
	Icon   string
	Width  int
	Height int
	// FirstRowY is the baseline of the first row, each following row is
	// RowStep further down.
	FirstRowY int
	RowStep   int
	IconSize  int
	Rows      []Row
}

var BlogCard = Card{
	Source:    csdn.Name,
	File:      "blog-card.svg",
	Title:     "Blog",
	Icon:      "📝",
	Width:     450,
	Height:    200,
	FirstRowY: 65,
	RowStep:   25,
	IconSize:  50,
	Rows: []Row{
		{Label: "👥 粉丝", Field: csdn.FieldFans},
		{Label: "👍 点赞", Field: csdn.FieldLikes},
		{Label: "⭐ 收藏", Field: csdn.FieldCollect},
		{Label: "📄 原创", Field: csdn.FieldOriginal},
		{Label: "👁️ 访问", Field: csdn.FieldViews},
	},
}

var VlogCard = Card{
	Source:    bilibili.Name,
	File:      "vlog-card.svg",
	Title:     "Vlog",
	Icon:      "🎬",
	Width:     450,
	Height:    190,
	FirstRowY: 70,
	RowStep:   30,
	IconSize:  45,
	Rows: []Row{
		{Label: "👥 粉丝", Field: bilibili.FieldFollower},
		{Label: "▶️ 播放", Field: bilibili.FieldViews},
		{Label: "💖 获赞", Field: bilibili.FieldLikes},
		{Label: "🎞️ 投稿", Field: bilibili.FieldCreations},
	},
}

// DefaultCards are the cards generated by the cards command.
var DefaultCards = []Card{BlogCard, VlogCard}

type renderedRow struct {
	Label string
	Value string
	Y     int
}

type cardData struct {
	Card
	Rows      []renderedRow
	IconY     int
	IconTextY int
}

// Render writes the svg of `card` filled with the values of `record`.
// fields missing from the record are shown as 0.
func Render(w io.Writer, card Card, record snapshot.Record) error {
	data := cardData{
		Card:      card,
		IconY:     card.Height / 2,
		IconTextY: card.Height/2 + card.IconSize*2/5,
	}
	for i, row := range card.Rows {
		data.Rows = append(data.Rows, renderedRow{
			Label: row.Label,
			Value: render.FormatNumber(record.IntOr(row.Field)),
			Y:     card.FirstRowY + i*card.RowStep,
		})
	}
	return cardTemplate.Execute(w, data)
}

type Generator struct {
	loader render.Loader
	outDir string
	tel    telemetry.API
}

func NewGenerator(loader render.Loader, outDir string, tel telemetry.API) Generator {
	assert.NotNil(loader)
	assert.NotNil(tel)
	return Generator{
		loader: loader,
		outDir: outDir,
		tel:    telemetry.NewScopedAPI("badge", tel),
	}
}

// Generate writes every card whose snapshot exists and returns the paths it
// wrote. a missing snapshot skips its card with a warning.
func (g Generator) Generate(cards ...Card) ([]string, error) {
	var written []string
	for _, card := range cards {
		record, err := g.loader.Load(card.Source)
		if errors.Is(err, os.ErrNotExist) {
			g.tel.ReportWarning(report_generate, fmt.Errorf("skipped %s: %w", card.File, err))
			continue
		}
		if err != nil {
			return written, fmt.Errorf("load %s snapshot: %w", card.Source, err)
		}

		var buf bytes.Buffer
		err = Render(&buf, card, record)
		if err != nil {
			return written, fmt.Errorf("render %s: %w", card.File, err)
		}

		err = os.MkdirAll(g.outDir, 0755)
		if err != nil {
			return written, err
		}
		path := filepath.Join(g.outDir, card.File)
		err = os.WriteFile(path, buf.Bytes(), 0644)
		if err != nil {
			return written, err
		}
		g.tel.ReportDebug(report_generate, "wrote", path)
		written = append(written, path)
	}
	return written, nil
}

package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"strings"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/gizikita/backend/internal/logger"
	"github.com/gizikita/backend/internal/models"
	"github.com/gizikita/backend/internal/nutrition"
)

// Share card dimensions in pixels.
const (
	CardWidth  = 1080
	CardHeight = 1540
	cardMargin = 60
)

var (
	colorBackground  = color.RGBA{0xF4, 0xFA, 0xF5, 0xFF}
	colorPrimary     = color.RGBA{0x2E, 0x7D, 0x32, 0xFF}
	colorText        = color.RGBA{0x21, 0x21, 0x21, 0xFF}
	colorMuted       = color.RGBA{0x61, 0x61, 0x61, 0xFF}
	colorTile        = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	colorPlaceholder = color.RGBA{0xDD, 0xE5, 0xDE, 0xFF}
	colorWarning     = color.RGBA{0xE6, 0x5C, 0x00, 0xFF}
)

// ShareCardRenderer draws a PNG summary card for a saved scan.
type ShareCardRenderer struct {
	fetcher ImageFetcher
	loc     *time.Location
	regular *opentype.Font
	bold    *opentype.Font
	log     *logger.Logger
}

// NewShareCardRenderer parses the embedded Go fonts.
func NewShareCardRenderer(fetcher ImageFetcher, loc *time.Location, log *logger.Logger) (*ShareCardRenderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ShareCardRenderer{
		fetcher: fetcher,
		loc:     loc,
		regular: regular,
		bold:    bold,
		log:     log.WithComponent("sharecard"),
	}, nil
}

type cardFaces struct {
	title, heading, body, small, value font.Face
}

func (r *ShareCardRenderer) faces() (*cardFaces, func(), error) {
	var opened []font.Face
	mk := func(f *opentype.Font, size float64) (font.Face, error) {
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err == nil {
			opened = append(opened, face)
		}
		return face, err
	}
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	var faces cardFaces
	var err error
	specs := []struct {
		dst  *font.Face
		font *opentype.Font
		size float64
	}{
		{&faces.title, r.bold, 60},
		{&faces.heading, r.bold, 38},
		{&faces.body, r.regular, 32},
		{&faces.small, r.regular, 26},
		{&faces.value, r.bold, 44},
	}
	for _, s := range specs {
		if *s.dst, err = mk(s.font, s.size); err != nil {
			closeAll()
			return nil, nil, err
		}
	}
	return &faces, closeAll, nil
}

// Render draws the card. A photo that cannot be fetched is replaced by a
// placeholder; only drawing or encoding errors fail the call.
func (r *ShareCardRenderer) Render(ctx context.Context, scan *models.NutritionScan) ([]byte, error) {
	faces, closeFaces, err := r.faces()
	if err != nil {
		r.log.Error("share card font setup failed", "error", err)
		return nil, ExportFailure(MsgShareCardFailed, err)
	}
	defer closeFaces()

	canvas := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	fill(canvas, canvas.Bounds(), colorBackground)

	// header
	fill(canvas, image.Rect(0, 0, CardWidth, 140), colorPrimary)
	drawText(canvas, faces.title, "GiziKita", cardMargin, 95, color.White)
	date := scan.ScanDate.In(r.loc).Format("02 Jan 2006")
	drawTextRight(canvas, faces.body, date, CardWidth-cardMargin, 90, color.White)

	// photo
	photoRect := image.Rect(cardMargin, 170, CardWidth-cardMargin, 790)
	r.drawPhoto(ctx, canvas, photoRect, scan.ImageURL)

	// menu
	y := 850
	drawText(canvas, faces.heading, "Menu", cardMargin, y, colorPrimary)
	y += 46
	for _, line := range wrapText(faces.body, MenuNames(scan.Items()), CardWidth-2*cardMargin, 2) {
		drawText(canvas, faces.body, line, cardMargin, y, colorText)
		y += 40
	}
	drawText(canvas, faces.small, "Kategori: "+scan.SchoolCategory.Label(), cardMargin, y+4, colorMuted)

	// nutrient tiles
	facts := scan.Facts()
	r.drawTiles(canvas, faces, facts.Summary, 1030)

	// evaluation
	if ev := facts.Evaluation; ev != nil {
		c := colorPrimary
		if ev.Status == models.StatusUnbalanced {
			c = colorWarning
		}
		drawText(canvas, faces.heading, "Status: "+ev.Status.Label(), cardMargin, 1440, c)
		if lines := wrapText(faces.small, ev.Reason, CardWidth-2*cardMargin, 1); len(lines) > 0 {
			drawText(canvas, faces.small, lines[0], cardMargin, 1486, colorMuted)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		r.log.Error("share card encode failed", "scan_id", scan.ID, "error", err)
		return nil, ExportFailure(MsgShareCardFailed, err)
	}
	return buf.Bytes(), nil
}

func (r *ShareCardRenderer) drawPhoto(ctx context.Context, dst *image.RGBA, rect image.Rectangle, url string) {
	fill(dst, rect, colorPlaceholder)
	if r.fetcher == nil || url == "" {
		return
	}
	img, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		r.log.Warn("share card photo unavailable", "image_url", url, "error", err)
		return
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		r.log.Warn("share card photo undecodable", "image_url", url, "error", err)
		return
	}
	xdraw.CatmullRom.Scale(dst, rect, src, coverCrop(src.Bounds(), rect), draw.Over, nil)
}

// coverCrop returns the centred part of src with the aspect ratio of dst.
func coverCrop(src, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw*dh > sh*dw {
		w := sh * dw / dh
		x := src.Min.X + (sw-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := sw * dh / dw
	y := src.Min.Y + (sh-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}

func (r *ShareCardRenderer) drawTiles(dst *image.RGBA, faces *cardFaces, s models.Nutrients, top int) {
	dv := nutrition.DailyValues(s)
	tiles := []struct {
		label string
		value string
		pct   int
	}{
		{"Kalori", fmt.Sprintf("%.0f kkal", s.CaloriesKcal), dv.Calories},
		{"Protein", fmt.Sprintf("%.1f g", s.ProteinG), dv.Protein},
		{"Lemak", fmt.Sprintf("%.1f g", s.FatG), dv.Fat},
		{"Karbohidrat", fmt.Sprintf("%.1f g", s.CarbsG), dv.Carbs},
		{"Natrium", fmt.Sprintf("%.0f mg", s.SodiumMg), dv.Sodium},
		{"Serat", fmt.Sprintf("%.1f g", s.FiberG), dv.Fiber},
	}

	const gap = 24
	w := (CardWidth - 2*cardMargin - 2*gap) / 3
	h := 170
	for i, t := range tiles {
		x := cardMargin + (i%3)*(w+gap)
		y := top + (i/3)*(h+gap)
		fill(dst, image.Rect(x, y, x+w, y+h), colorTile)
		fill(dst, image.Rect(x, y, x+8, y+h), colorPrimary)
		drawText(dst, faces.small, t.label, x+28, y+44, colorMuted)
		drawText(dst, faces.value, t.value, x+28, y+104, colorText)
		drawText(dst, faces.small, fmt.Sprintf("%d%% AKG", t.pct), x+28, y+146, colorPrimary)
	}
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawText(dst draw.Image, face font.Face, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawTextRight(dst draw.Image, face font.Face, text string, right, y int, c color.Color) {
	w := font.MeasureString(face, text).Ceil()
	drawText(dst, face, text, right-w, y, c)
}

// wrapText breaks text into at most maxLines lines no wider than width,
// ending the last line with an ellipsis when text does not fit.
func wrapText(face font.Face, text string, width, maxLines int) []string {
	words := strings.Fields(text)
	var lines []string
	var cur string
	for _, word := range words {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if font.MeasureString(face, next).Ceil() <= width || cur == "" {
			cur = next
			continue
		}
		lines = append(lines, cur)
		cur = word
		if len(lines) == maxLines {
			lines[maxLines-1] = strings.TrimRight(lines[maxLines-1], ",") + "…"
			return lines
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

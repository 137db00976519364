package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/richschool/compound-school/internal/core/domain"
	"github.com/richschool/compound-school/internal/core/ports"
)

// Base geometry; everything is multiplied by the exporter scale.
const (
	canvasWidth  = 320
	canvasHeight = 200
	border       = 4
	lineHeight   = 16
	marginLeft   = 24
	fontSize     = 10
)

var (
	paper  = color.RGBA{R: 0xff, G: 0xf8, B: 0xe7, A: 0xff}
	gold   = color.RGBA{R: 0xd4, G: 0xa0, B: 0x17, A: 0xff}
	ink    = color.RGBA{R: 0x33, G: 0x2a, B: 0x1f, A: 0xff}
	accent = color.RGBA{R: 0x1e, G: 0x5a, B: 0xa8, A: 0xff}
)

// PNGExporter draws the completion certificate as a PNG.
//
// Korean names need a font with Hangul glyphs (for example NanumGothic).
// Without one the Go font is used and a name it cannot draw is replaced by
// a label derived from the session id.
type PNGExporter struct {
	scale   int
	printer *message.Printer

	// opentype faces are not safe for concurrent use.
	mu   sync.Mutex
	face font.Face
}

// NewPNGExporter returns an exporter whose output is scale times the base
// canvas. scale <= 0 means 3. fontData is a TrueType or OpenType font; nil
// selects the bundled Go Regular face.
func NewPNGExporter(scale int, fontData []byte) (*PNGExporter, error) {
	if scale <= 0 {
		scale = 3
	}
	if fontData == nil {
		fontData = goregular.TTF
	}
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse certificate font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("certificate font face: %w", err)
	}
	return &PNGExporter{
		scale:   scale,
		printer: message.NewPrinter(language.English),
		face:    face,
	}, nil
}

// LoadFont reads a font file for NewPNGExporter. An empty path returns nil.
func LoadFont(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read certificate font: %w", err)
	}
	return data, nil
}

func (e *PNGExporter) ContentType() string { return "image/png" }

func (e *PNGExporter) ExportCertificate(ctx context.Context, in ports.CertificateInput) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := e.scale
	img := image.NewRGBA(image.Rect(0, 0, canvasWidth*s, canvasHeight*s))
	draw.Draw(img, img.Bounds(), image.NewUniform(gold), image.Point{}, draw.Src)
	draw.Draw(img, img.Bounds().Inset(border*s), image.NewUniform(paper), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(marginLeft*s, 44*s, (canvasWidth-marginLeft)*s, 46*s), image.NewUniform(gold), image.Point{}, draw.Src)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.text(img, accent, 30, "COMPOUND INTEREST SCHOOL")
	lines := []string{
		"CERTIFICATE OF COMPLETION",
		"Student:  " + e.studentLabel(in.UserName, in.SessionID),
		"Avatar:   " + string(in.Avatar.ID),
		"Type:     " + personaLabel(in.Persona.Avatar),
		"Money:    " + e.won(in.Money),
		"Income:   " + e.won(in.TotalIncome),
		"Expense:  " + e.won(in.TotalExpense),
		"",
		"Issued " + in.IssuedAt.Format("2006-01-02"),
	}
	y := 64
	for _, l := range lines {
		e.text(img, ink, y, l)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PNGExporter) won(n int) string {
	return e.printer.Sprintf("%d KRW", n)
}

// text draws s with its baseline at base row y. Callers hold e.mu.
func (e *PNGExporter) text(dst draw.Image, c color.Color, y int, s string) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: e.face,
		Dot:  fixed.P(marginLeft*e.scale, y*e.scale),
	}
	d.DrawString(s)
}

// studentLabel returns name when the face can draw it, otherwise a label
// derived from the session id. Callers hold e.mu.
func (e *PNGExporter) studentLabel(name, sessionID string) string {
	if name != "" && e.covers(name) {
		return name
	}
	short := sessionID
	if len(short) > 8 {
		short = short[:8]
	}
	if short == "" {
		return "Student"
	}
	return "Student #" + short
}

// covers reports whether the face has a glyph for every printable rune of s.
func (e *PNGExporter) covers(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := e.face.GlyphAdvance(r); !ok {
			return false
		}
	}
	return true
}

func personaLabel(a domain.Avatar) string {
	switch a {
	case domain.AvatarJjangi:
		return "Joyful Spender"
	case domain.AvatarEongi:
		return "Future Investor"
	case domain.AvatarRami:
		return "Steady Saver"
	}
	return "Rich School Graduate"
}

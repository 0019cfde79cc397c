package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/shouni/bingo-card-kit/pkg/domain"
	"github.com/shouni/bingo-card-kit/pkg/imgutil"
)

const (
	fontFamily         = "Helvetica"
	defaultJPEGQuality = 85
	lineWidth          = 0.75
	fallbackGlyph      = "?"
)

// ImageFetcher はレンダラーが画像バイナリを取得するためのインターフェースです。
type ImageFetcher interface {
	Fetch(ctx context.Context, icon *domain.Icon) ([]byte, error)
}

// PDFRenderer はページレイアウトの描画命令を fpdf のプリミティブに変換します。
// レイアウトの計算は行わず、命令どおりに描くだけです。
type PDFRenderer struct {
	images      ImageFetcher
	jpegQuality int
	logger      *slog.Logger

	mu      sync.Mutex
	measure *fpdf.Fpdf
}

// NewPDFRenderer は PDFRenderer を生成します。images が nil の場合、画像はすべて代替グリフになります。
func NewPDFRenderer(images ImageFetcher, logger *slog.Logger) *PDFRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{
		images:      images,
		jpegQuality: defaultJPEGQuality,
		logger:      logger,
	}
}

// TextWidth はコアフォントでのテキスト幅をポイントで返します。layout.TextMeasurer を満たします。
func (r *PDFRenderer) TextWidth(text string, fontSize float64, bold bool) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.measure == nil {
		r.measure = fpdf.New("P", "pt", "Letter", "")
	}
	r.measure.SetFont(fontFamily, fontStyle(bold), fontSize)
	tr := r.measure.UnicodeTranslatorFromDescriptor("")
	return r.measure.GetStringWidth(tr(text))
}

// registeredImage は PDF に登録済みの画像の名前と形式です。空の name は登録失敗を表します。
type registeredImage struct {
	name      string
	imageType string
}

// Render は pages を1つの PDF として w に書き出します。
// 個々の画像の失敗は代替グリフに置き換え、描画は中断しません。
func (r *PDFRenderer) Render(ctx context.Context, title string, pages []domain.PageLayout, w io.Writer) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to render")
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pages[0].Width, Ht: pages[0].Height},
	})
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetLineWidth(lineWidth)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	registered := make(map[string]registeredImage)
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, op := range page.Ops {
			r.draw(ctx, pdf, tr, op, registered)
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("render page %d: %w", page.PageIndex, err)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) draw(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, op domain.DrawOp, registered map[string]registeredImage) {
	switch op.Kind {
	case domain.OpRect:
		setColor(pdf, op)
		pdf.Rect(op.X, op.Y, op.Width, op.Height, paintStyle(op.Style))
	case domain.OpCircle:
		setColor(pdf, op)
		pdf.Circle(op.X, op.Y, op.Radius, paintStyle(op.Style))
	case domain.OpText:
		drawText(pdf, tr, op)
	case domain.OpImage:
		img := r.register(ctx, pdf, op.Icon, registered)
		if img.name == "" {
			drawFallback(pdf, op)
			return
		}
		pdf.ImageOptions(img.name, op.X, op.Y, op.Width, op.Height, false,
			fpdf.ImageOptions{ImageType: img.imageType}, 0, "")
	case domain.OpPlaceholder:
		drawFallback(pdf, op)
	}
}

// register はアイコン画像を一度だけ PDF に登録します。
// fpdf が直接扱えない PNG (インターレース等) は JPEG に変換して再登録を試みます。
func (r *PDFRenderer) register(ctx context.Context, pdf *fpdf.Fpdf, icon *domain.Icon, registered map[string]registeredImage) registeredImage {
	if icon == nil {
		return registeredImage{}
	}
	if img, ok := registered[icon.ID]; ok {
		return img
	}
	img := r.tryRegister(ctx, pdf, icon)
	registered[icon.ID] = img
	return img
}

func (r *PDFRenderer) tryRegister(ctx context.Context, pdf *fpdf.Fpdf, icon *domain.Icon) registeredImage {
	if r.images == nil {
		return registeredImage{}
	}
	data, err := r.images.Fetch(ctx, icon)
	if err != nil {
		r.logger.WarnContext(ctx, "画像を取得できなかったため代替グリフを描画します", "icon_id", icon.ID, "error", err)
		return registeredImage{}
	}

	name := "icon-" + icon.ID
	_, _, format, err := imgutil.Dimensions(data)
	if err == nil {
		if imageType := fpdfImageType(format); imageType != "" {
			pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
			if pdf.Ok() {
				return registeredImage{name: name, imageType: imageType}
			}
			pdf.ClearError()
		}
	}

	jpg, err := imgutil.ToJPEG(data, r.jpegQuality)
	if err != nil {
		r.logger.WarnContext(ctx, "画像をデコードできなかったため代替グリフを描画します", "icon_id", icon.ID, "error", err)
		return registeredImage{}
	}
	name += "-jpeg"
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(jpg))
	if !pdf.Ok() {
		r.logger.WarnContext(ctx, "PDFへの画像登録に失敗しました", "icon_id", icon.ID, "error", pdf.Error())
		pdf.ClearError()
		return registeredImage{}
	}
	return registeredImage{name: name, imageType: "JPG"}
}

func drawText(pdf *fpdf.Fpdf, tr func(string) string, op domain.DrawOp) {
	text := tr(op.Text)
	pdf.SetFont(fontFamily, fontStyle(op.Bold), op.FontSize)
	pdf.SetTextColor(int(op.Color.R), int(op.Color.G), int(op.Color.B))
	x := op.X
	switch op.Align {
	case domain.AlignCenter:
		x -= pdf.GetStringWidth(text) / 2
	case domain.AlignRight:
		x -= pdf.GetStringWidth(text)
	}
	pdf.Text(x, op.Y, text)
}

// drawFallback は画像の代わりに枠と斜線、"?" を描きます。
func drawFallback(pdf *fpdf.Fpdf, op domain.DrawOp) {
	pdf.SetDrawColor(int(domain.Gray.R), int(domain.Gray.G), int(domain.Gray.B))
	pdf.Rect(op.X, op.Y, op.Width, op.Height, "D")
	pdf.Line(op.X, op.Y, op.X+op.Width, op.Y+op.Height)
	pdf.Line(op.X+op.Width, op.Y, op.X, op.Y+op.Height)

	fs := op.Height * 0.3
	pdf.SetFont(fontFamily, "B", fs)
	pdf.SetTextColor(int(domain.Gray.R), int(domain.Gray.G), int(domain.Gray.B))
	w := pdf.GetStringWidth(fallbackGlyph)
	pdf.Text(op.X+(op.Width-w)/2, op.Y+op.Height/2+fs*0.35, fallbackGlyph)
	pdf.SetDrawColor(0, 0, 0)
}

func setColor(pdf *fpdf.Fpdf, op domain.DrawOp) {
	c := op.Color
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func paintStyle(s domain.PaintStyle) string {
	switch s {
	case domain.Fill:
		return "F"
	case domain.FillStroke:
		return "FD"
	default:
		return "D"
	}
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

func fpdfImageType(format string) string {
	switch format {
	case "png":
		return "PNG"
	case "jpeg":
		return "JPG"
	case "gif":
		return "GIF"
	default:
		return ""
	}
}

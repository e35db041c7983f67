package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/roman-kulish/imu-inspect/internal/imu"
)

const (
	dpi            = 96.0
	fontSize       = 9.0
	tickMarkLength = 5
	pixelsPerLabel = 100.0
	valueMargin    = 0.05 // fraction of the value range added above and below
	flatMargin     = 1e-3 // fraction of the value added around a constant trace
	maxTicks       = 1000

	defaultPanelWidth  = 1200
	defaultPanelHeight = 300

	// Default border sizes in pixels
	defaultTopBorder    = 40
	defaultLeftBorder   = 80
	defaultBottomBorder = 60
	defaultRightBorder  = 60
)

var (
	gridColor  = color.RGBA{R: 0xe6, G: 0xe6, B: 0xe6, A: 0xff}
	zeroColor  = color.RGBA{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
	frameColor = color.Black
)

// BorderConfig defines the sizes of white space around the plot panels
type BorderConfig struct {
	Top    int // Space for the panel title, also used between panels
	Left   int // Space for the value scale
	Bottom int // Space for the time scale and information bar
	Right  int // Space for the legend
}

// RenderConfig holds all configuration options for the trace plot
type RenderConfig struct {
	Width  int // Panel width in pixels
	Height int // Panel height in pixels

	FontSize   float64
	ColorTheme ColorTheme

	BorderConfig BorderConfig
}

// PlotRenderer draws acceleration and angular rate traces, one panel each
type PlotRenderer struct {
	config  RenderConfig
	palette [3]color.Color
}

// NewPlotRenderer creates a new plot renderer with the given configuration
func NewPlotRenderer(config RenderConfig) (*PlotRenderer, error) {
	// Set defaults for zero values
	if config.Width == 0 {
		config.Width = defaultPanelWidth
	}
	if config.Height == 0 {
		config.Height = defaultPanelHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.ColorTheme == "" {
		config.ColorTheme = ClassicTheme
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}
	if config.Width < 2 || config.Height < 2 {
		return nil, fmt.Errorf("plot panel must be at least 2x2 pixels: %dx%d given", config.Width, config.Height)
	}
	if _, ok := colorThemes[config.ColorTheme]; !ok {
		return nil, fmt.Errorf("invalid plot theme: %s", config.ColorTheme)
	}

	return &PlotRenderer{
		config:  config,
		palette: GetColorTheme(config.ColorTheme),
	}, nil
}

type panel struct {
	quantity imu.Quantity
	area     image.Rectangle
	minValue float64
	maxValue float64
	columns  [3][]float64
}

func newPanel(series *imu.Series, q imu.Quantity, area image.Rectangle) *panel {
	p := panel{
		quantity: q,
		area:     area,
		minValue: math.Inf(1),
		maxValue: math.Inf(-1),
	}
	for _, axis := range imu.Axes {
		col := series.Column(q, axis)
		for _, v := range col {
			p.minValue = min(p.minValue, v)
			p.maxValue = max(p.maxValue, v)
		}
		p.columns[axis] = col
	}

	if p.maxValue == p.minValue {
		pad := max(math.Abs(p.maxValue)*flatMargin, 1)
		p.minValue -= pad
		p.maxValue += pad
	}
	span := p.maxValue - p.minValue
	p.minValue -= span * valueMargin
	p.maxValue += span * valueMargin
	return &p
}

func (p *panel) x(t, duration float64) int {
	if duration <= 0 {
		return p.area.Min.X
	}
	return p.area.Min.X + int(math.Round(t/duration*float64(p.area.Dx()-1)))
}

func (p *panel) y(v float64) int {
	ratio := (v - p.minValue) / (p.maxValue - p.minValue)
	return p.area.Max.Y - 1 - int(math.Round(ratio*float64(p.area.Dy()-1)))
}

// Render creates an image of the series with annotations
func (r *PlotRenderer) Render(series *imu.Series) (*image.RGBA, error) {
	if series.Len() == 0 {
		return nil, imu.ErrEmptyData
	}
	if math.IsInf(series.Duration(), 0) {
		return nil, imu.ErrTimestampRange
	}

	b := r.config.BorderConfig
	w, h := r.config.Width, r.config.Height

	// Two panels stacked, separated by a top border sized gap
	fullWidth := b.Left + w + b.Right
	fullHeight := b.Top + h + b.Top + h + b.Bottom
	img := image.NewRGBA(image.Rect(0, 0, fullWidth, fullHeight))

	// Fill with white background
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	panels := []*panel{
		newPanel(series, imu.Acceleration, image.Rect(b.Left, b.Top, b.Left+w, b.Top+h)),
		newPanel(series, imu.AngularRate, image.Rect(b.Left, 2*b.Top+h, b.Left+w, 2*b.Top+2*h)),
	}

	ann, err := newAnnotator(annotatorConfig{
		FontSize: r.config.FontSize,
		Borders:  b,
		Palette:  r.palette,
	})
	if err != nil {
		return nil, fmt.Errorf("creating annotator: %w", err)
	}
	defer ann.Close()

	duration := series.Duration()
	for i, p := range panels {
		// Annotations first, traces are drawn on top of the grid
		if err = ann.annotate(img, p, duration, i == len(panels)-1); err != nil {
			return nil, fmt.Errorf("drawing %s annotations: %w", p.quantity, err)
		}
		r.renderTraces(img, p, series.Timestamps, duration)
	}

	if err = ann.drawInfoBar(img, series); err != nil {
		return nil, fmt.Errorf("drawing info bar: %w", err)
	}

	return img, nil
}

// renderTraces draws one polyline per axis clipped to the panel area
func (r *PlotRenderer) renderTraces(img *image.RGBA, p *panel, timestamps []float64, duration float64) {
	for axis, col := range p.columns {
		c := r.palette[axis]
		prevX, prevY := p.x(timestamps[0], duration), p.y(col[0])
		setClipped(img, p.area, prevX, prevY, c)
		for i := 1; i < len(col); i++ {
			x, y := p.x(timestamps[i], duration), p.y(col[i])
			drawLine(img, p.area, prevX, prevY, x, y, c)
			prevX, prevY = x, y
		}
	}
}

// drawLine is Bresenham's algorithm restricted to clip
func drawLine(img *image.RGBA, clip image.Rectangle, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		setClipped(img, clip, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func setClipped(img *image.RGBA, clip image.Rectangle, x, y int, c color.Color) {
	if image.Pt(x, y).In(clip) {
		img.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// writeImage encodes img to path, the format is picked by file extension
func writeImage(path string, img image.Image) (err error) {
	format, err := imageFormat(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := out.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	switch format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}

// Internal annotator implementation
type annotatorConfig struct {
	FontSize float64
	Borders  BorderConfig
	Palette  [3]color.Color
}

type annotator struct {
	context  *freetype.Context
	config   annotatorConfig
	fontFace font.Face
}

func newAnnotator(config annotatorConfig) (*annotator, error) {
	parsedFont, err := freetype.ParseFont(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(parsedFont)
	ctx.SetFontSize(config.FontSize)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)

	return &annotator{
		context: ctx,
		config:  config,
		fontFace: truetype.NewFace(parsedFont, &truetype.Options{
			Size:    config.FontSize,
			DPI:     dpi,
			Hinting: font.HintingNone,
		}),
	}, nil
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

func (a *annotator) fontHeight() int {
	metrics := a.fontFace.Metrics()
	return (metrics.Ascent + metrics.Descent).Round()
}

func (a *annotator) drawString(s string, x, y int, src image.Image) error {
	a.context.SetSrc(src)
	_, err := a.context.DrawString(s, freetype.Pt(x, y))
	return err
}

func (a *annotator) annotate(img *image.RGBA, p *panel, duration float64, timeLabels bool) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	if err := a.drawValueScale(img, p); err != nil {
		return fmt.Errorf("drawing value scale: %w", err)
	}
	if err := a.drawTimeScale(img, p, duration, timeLabels); err != nil {
		return fmt.Errorf("drawing time scale: %w", err)
	}
	if err := a.drawTitle(p); err != nil {
		return fmt.Errorf("drawing title: %w", err)
	}
	if err := a.drawLegend(img, p); err != nil {
		return fmt.Errorf("drawing legend: %w", err)
	}
	a.drawFrame(img, p.area)

	return nil
}

func (a *annotator) drawValueScale(img *image.RGBA, p *panel) error {
	step := calculateNiceStep(p.maxValue-p.minValue, p.area.Dy())
	fontHeight := a.fontHeight()

	if p.minValue < 0 && p.maxValue > 0 {
		y := p.y(0)
		for x := p.area.Min.X; x < p.area.Max.X; x++ {
			img.Set(x, y, zeroColor)
		}
	}

	first := math.Ceil(p.minValue/step) * step
	for n := 0; n < maxTicks; n++ {
		value := first + float64(n)*step
		if value > p.maxValue {
			break
		}
		y := p.y(value)

		if value != 0 {
			for x := p.area.Min.X; x < p.area.Max.X; x++ {
				img.Set(x, y, gridColor)
			}
		}
		for x := p.area.Min.X - tickMarkLength; x < p.area.Min.X; x++ {
			img.Set(x, y, frameColor)
		}

		label := strconv.FormatFloat(value, 'g', 4, 64)
		width := font.MeasureString(a.fontFace, label).Round()
		if err := a.drawString(label, p.area.Min.X-tickMarkLength-3-width, y+fontHeight/2-2, image.Black); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawTimeScale(img *image.RGBA, p *panel, duration float64, labels bool) error {
	if duration <= 0 || math.IsInf(duration, 0) {
		return nil
	}

	step := calculateNiceStep(duration, p.area.Dx())
	fontHeight := a.fontHeight()

	for n := 0; n < maxTicks; n++ {
		t := float64(n) * step
		if t > duration {
			break
		}
		x := p.x(t, duration)

		for y := p.area.Min.Y; y < p.area.Max.Y; y++ {
			img.Set(x, y, gridColor)
		}
		for y := p.area.Max.Y; y < p.area.Max.Y+tickMarkLength; y++ {
			img.Set(x, y, frameColor)
		}

		if !labels {
			continue
		}

		label := humanize.SIWithDigits(t, 2, "s")
		width := font.MeasureString(a.fontFace, label).Round()
		if err := a.drawString(label, x-width/2, p.area.Max.Y+tickMarkLength+fontHeight, image.Black); err != nil {
			return err
		}
	}
	return nil
}

func (a *annotator) drawTitle(p *panel) error {
	title := fmt.Sprintf("%s, %s", p.quantity, p.quantity.Unit())
	return a.drawString(title, p.area.Min.X, p.area.Min.Y-a.fontHeight()/2, image.Black)
}

func (a *annotator) drawLegend(img *image.RGBA, p *panel) error {
	fontHeight := a.fontHeight()
	x := p.area.Max.X + 10
	y := p.area.Min.Y + fontHeight

	for _, axis := range imu.Axes {
		c := a.config.Palette[axis]
		for i := 0; i < 12; i++ {
			img.Set(x+i, y-fontHeight/3, c)
		}
		if err := a.drawString(axis.String(), x+16, y, image.NewUniform(c)); err != nil {
			return err
		}
		y += fontHeight + 4
	}
	return nil
}

func (a *annotator) drawFrame(img *image.RGBA, area image.Rectangle) {
	for x := area.Min.X - 1; x <= area.Max.X; x++ {
		img.Set(x, area.Min.Y-1, frameColor)
		img.Set(x, area.Max.Y, frameColor)
	}
	for y := area.Min.Y - 1; y <= area.Max.Y; y++ {
		img.Set(area.Min.X-1, y, frameColor)
		img.Set(area.Max.X, y, frameColor)
	}
}

func (a *annotator) drawInfoBar(img *image.RGBA, series *imu.Series) error {
	info := fmt.Sprintf("Start: %s s; Samples: %s; Duration: %s",
		imu.FormatFloat64(series.Start),
		humanize.Comma(int64(series.Len())),
		humanize.SIWithDigits(series.Duration(), 3, "s"))

	if rate := meanSampleRate(series); rate > 0 {
		info += fmt.Sprintf("; Rate: %s", humanize.SIWithDigits(rate, 1, "Hz"))
	}

	// Bottom line of the bottom border
	metrics := a.fontFace.Metrics()
	textY := img.Bounds().Max.Y - metrics.Descent.Round() - 4

	return a.drawString(info, a.config.Borders.Left, textY, image.Black)
}

// calculateNiceStep returns a 1, 2 or 5 times a power of ten step giving
// roughly one label per pixelsPerLabel pixels
func calculateNiceStep(span float64, pixels int) float64 {
	if span <= 0 || pixels <= 0 {
		return 1
	}

	desiredSteps := math.Max(float64(pixels)/pixelsPerLabel, 1)
	roughStep := span / desiredSteps
	magnitude := math.Pow(10, math.Floor(math.Log10(roughStep)))

	for _, m := range []float64{1, 2, 5} {
		if step := m * magnitude; step >= roughStep {
			return step
		}
	}
	return 10 * magnitude
}

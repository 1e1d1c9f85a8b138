package plot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

var ErrNoData = errors.New("plot: no data to plot")

// Figure is a two-panel fit diagnostic: data with the fitted curve on top,
// residuals below.
type Figure struct {
	Title     string
	XLabel    string
	XUnits    string
	YLabel    string
	YUnits    string
	X         []float64
	Y         []float64
	Fit       []float64
	Residuals []float64
	RMS       float64
	Width     int
	Height    int
}

func (f *Figure) validate() error {
	n := len(f.X)
	if n < 2 {
		return ErrNoData
	}
	if len(f.Y) != n || len(f.Fit) != n || len(f.Residuals) != n {
		return fmt.Errorf("plot: series lengths differ (x=%d y=%d fit=%d residual=%d)", n, len(f.Y), len(f.Fit), len(f.Residuals))
	}
	return nil
}

func label(name, units string) string {
	if units == "" {
		return name
	}
	return name + " (" + units + ")"
}

// panel maps data coordinates into a pixel rectangle.
type panel struct {
	left, top, width, height float64
	minX, maxX, minY, maxY   float64
}

func newPanel(left, top, width, height float64, xs []float64, ys ...[]float64) panel {
	p := panel{left: left, top: top, width: width, height: height}
	p.minX, p.maxX = bounds(xs)
	p.minY, p.maxY = math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		lo, hi := bounds(y)
		p.minY = math.Min(p.minY, lo)
		p.maxY = math.Max(p.maxY, hi)
	}

	rangeX := p.maxX - p.minX
	rangeY := p.maxY - p.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	p.minY -= rangeY * 0.1
	p.maxY += rangeY * 0.1
	p.maxX = p.minX + rangeX
	return p
}

func bounds(v []float64) (float64, float64) {
	lo, hi := v[0], v[0]
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func (p panel) px(x float64) float64 {
	return p.left + (x-p.minX)/(p.maxX-p.minX)*p.width
}

func (p panel) py(y float64) float64 {
	return p.top + p.height - (y-p.minY)/(p.maxY-p.minY)*p.height
}

func (p panel) path(xs, ys []float64, stroke string) string {
	var sb strings.Builder
	sb.WriteString(`<path fill="none" stroke="` + stroke + `" stroke-width="1.2" d="M`)
	for i := range xs {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", p.px(xs[i]), p.py(ys[i]))
	}
	sb.WriteString(`"/>` + "\n")
	return sb.String()
}

// frame draws the border, grid and tick labels.
func (p panel) frame(sb *strings.Builder, xTicks bool) {
	fmt.Fprintf(sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#333333"/>`+"\n",
		p.left, p.top, p.width, p.height)

	const ticks = 5
	for i := 0; i <= ticks; i++ {
		fx := p.minX + float64(i)/ticks*(p.maxX-p.minX)
		x := p.px(fx)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#dddddd"/>`+"\n", x, p.top, x, p.top+p.height)
		if xTicks {
			fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="middle">%s</text>`+"\n",
				x, p.top+p.height+14, tick(fx))
		}

		fy := p.minY + float64(i)/ticks*(p.maxY-p.minY)
		y := p.py(fy)
		fmt.Fprintf(sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#dddddd"/>`+"\n", p.left, y, p.left+p.width, y)
		fmt.Fprintf(sb, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="end">%s</text>`+"\n",
			p.left-6, y+3, tick(fy))
	}
}

func tick(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// SVG renders the figure.
func (f *Figure) SVG() (string, error) {
	if err := f.validate(); err != nil {
		return "", err
	}

	width, height := float64(f.Width), float64(f.Height)
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	left, right := 70.0, 20.0
	plotW := width - left - right
	top := height * 0.15
	topH := height * 0.45
	bottom := top + topH + height*0.08
	bottomH := height * 0.22

	data := newPanel(left, top, plotW, topH, f.X, f.Y, f.Fit)
	res := newPanel(left, bottom, plotW, bottomH, f.X, f.Residuals, []float64{0})

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, width, height, width, height)

	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="14" text-anchor="middle">%s</text>`+"\n",
		left+plotW/2, top-10, escape(f.Title))

	data.frame(&sb, false)
	sb.WriteString(data.path(f.X, f.Y, "#1f77b4"))
	sb.WriteString(data.path(f.X, f.Fit, "#d62728"))
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		18.0, top+topH/2, 18.0, top+topH/2, escape(label(f.YLabel, f.YUnits)))

	lx, ly := left+plotW-70, top+8
	fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="62" height="34" fill="#ffffff" stroke="#999999"/>`+"\n", lx, ly)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#1f77b4" stroke-width="2"/><text x="%.1f" y="%.1f" font-size="9">Data</text>`+"\n",
		lx+6, ly+11, lx+22, ly+11, lx+28, ly+14)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d62728" stroke-width="2"/><text x="%.1f" y="%.1f" font-size="9">Fit</text>`+"\n",
		lx+6, ly+25, lx+22, ly+25, lx+28, ly+28)

	res.frame(&sb, true)
	zero := res.py(0)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d62728" stroke-opacity="0.5" stroke-dasharray="6,4"/>`+"\n",
		res.left, zero, res.left+res.width, zero)
	sb.WriteString(res.path(f.X, f.Residuals, "#1f77b4"))
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">Residual</text>`+"\n",
		18.0, bottom+bottomH/2, 18.0, bottom+bottomH/2)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="11" text-anchor="middle">%s</text>`+"\n",
		left+plotW/2, bottom+bottomH+32, escape(label(f.XLabel, f.XUnits)))

	annotation := fmt.Sprintf("RMS Residual = %.3f %s", f.RMS, f.YUnits)
	ax, ay := res.left+res.width-8, res.top+8
	fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="16" rx="4" fill="#ffffff" fill-opacity="0.8" stroke="#999999"/>`+"\n",
		ax-float64(len(annotation))*5.2-6, ay, float64(len(annotation))*5.2+10)
	fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="9" text-anchor="end">%s</text>`+"\n",
		ax, ay+11, escape(strings.TrimSpace(annotation)))

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// WriteSVG renders f to path.
func WriteSVG(path string, f *Figure) error {
	svg, err := f.SVG()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

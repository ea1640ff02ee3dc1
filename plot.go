package bencheval

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Chart dimensions shared by all renderers.
const (
	chartWidth  = 6 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var groupedBarWidth = vg.Points(18)

// chartColors returns the first n colors of the qualitative Dark2 palette
// used for all charts.
func chartColors(n int) ([]color.Color, error) {
	request := n
	if request < 3 {
		// Brewer palettes start at three colors.
		request = 3
	}

	pal, err := brewer.GetPalette(brewer.TypeQualitative, "Dark2", request)
	if err != nil {
		return nil, fmt.Errorf("dark2 palette: %w", err)
	}

	return pal.Colors()[:n], nil
}

// addGroupedBars adds one bar series per row of rows, offset so the series
// form groups along the nominal x axis. rows is indexed (series, category).
//
// The returned bar charts are in series order, for legend registration.
func addGroupedBars(p *plot.Plot, rows [][]float64, colors []color.Color) ([]*plotter.BarChart, error) {
	offset := -vg.Length(len(rows)-1) / 2 * groupedBarWidth

	bars := make([]*plotter.BarChart, 0, len(rows))

	for i, row := range rows {
		chart, err := plotter.NewBarChart(plotter.Values(row), groupedBarWidth)
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}

		chart.Offset = offset + vg.Length(i)*groupedBarWidth
		chart.Color = colors[i]
		chart.LineStyle.Width = 0

		p.Add(chart)
		bars = append(bars, chart)
	}

	return bars, nil
}

// hasNonFinite reports whether any value of the slice set is NaN or
// infinite. Charts touching such a value are skipped entirely instead of
// rendered with gaps. Infinities show up when a scenario has no row in a
// method CSV: its latency stays zero and the invocations-per-second
// transform divides by it.
func hasNonFinite(rows [][]float64) bool {
	for _, row := range rows {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}

	return false
}

// savePlot writes the chart to path, creating the directory first. The file
// extension picks the image format.
func savePlot(p *plot.Plot, path string) error {
	mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755)
	if mkdirErr != nil {
		return fmt.Errorf("create plot directory: %w", mkdirErr)
	}

	saveErr := p.Save(chartWidth, chartHeight, path)
	if saveErr != nil {
		return fmt.Errorf("save %s: %w", path, saveErr)
	}

	return nil
}

// saveTiled writes a single row of aligned subplots as one image, switching
// between PNG and PDF on the file extension.
func saveTiled(plots []*plot.Plot, w, h vg.Length, path string) error {
	mkdirErr := os.MkdirAll(filepath.Dir(path), 0o755)
	if mkdirErr != nil {
		return fmt.Errorf("create plot directory: %w", mkdirErr)
	}

	var canvas vg.CanvasWriterTo

	switch filepath.Ext(path) {
	case ".pdf":
		canvas = vgpdf.New(w, h)
	default:
		canvas = vgimg.PngCanvas{Canvas: vgimg.New(w, h)}
	}

	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(plots),
		PadX: vg.Millimeter * 2,
	}

	canvases := plot.Align([][]*plot.Plot{plots}, tiles, draw.New(canvas))
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	_, writeErr := canvas.WriteTo(f)
	if writeErr != nil {
		_ = f.Close()

		return fmt.Errorf("write %s: %w", path, writeErr)
	}

	closeErr := f.Close()
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", path, closeErr)
	}

	return nil
}

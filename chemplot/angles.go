/*
 * angles.go, part of pbfev.
 *
 * Copyright 2024 The pbfev authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package chemplot draws histograms of exit vector angles.
package chemplot

import (
	"fmt"
	"image/color"

	"github.com/rmera/pbfev/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotSize is the side of the (square) plots produced.
var PlotSize = 4 * vg.Inch

func basicAnglesPlot(title string, normalized bool) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Exit vector angle (deg)"
	p.Y.Label.Text = "Count"
	if normalized {
		p.Y.Label.Text = "Fraction"
	}
	p.Add(plotter.NewGrid())
	return p
}

// AnglesPlot draws the histogram h and saves it to filename.
// The format is taken from the extension of filename.
func AnglesPlot(h *histo.Data, title, filename string) error {
	if h == nil {
		return fmt.Errorf("chemplot.AnglesPlot: nil histogram")
	}
	div := h.CopyDividers()
	counts := h.Copy()
	bins := make([]plotter.HistogramBin, len(counts))
	for i, v := range counts {
		bins[i] = plotter.HistogramBin{Min: div[i], Max: div[i+1], Weight: v}
	}
	p := basicAnglesPlot(title, h.Normalized())
	hp := &plotter.Histogram{
		Bins:      bins,
		Width:     div[1] - div[0],
		FillColor: color.RGBA{R: 70, G: 110, B: 180, A: 255},
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(hp)
	//Constant X axis
	p.X.Min = div[0]
	p.X.Max = div[len(div)-1]
	p.Y.Min = 0
	return p.Save(PlotSize, PlotSize, filename)
}

// AnglesHistogram bins angles in buckets of width degrees and
// plots the resulting histogram to filename. It returns the histogram.
func AnglesHistogram(angles []float64, width float64, title, filename string) (*histo.Data, error) {
	if width <= 0 || width > histo.MaxAngle {
		return nil, fmt.Errorf("chemplot.AnglesHistogram: invalid bin width %v", width)
	}
	h := histo.NewData(histo.AngleDividers(width), angles)
	return h, AnglesPlot(h, title, filename)
}

package render

import (
	"math"

	"loanpredict/internal/predict"

	"github.com/shopspring/decimal"
)

// Palette is one colour scheme of the result card.
type Palette struct {
	Background string
	Border     string
	Text       string
	// PageAccent tints the main container behind the card.
	PageAccent string
}

var (
	approvedPalette = Palette{Background: "#E9F7EF", Border: "#28a745", Text: "#1E8449", PageAccent: "#1E8449"}
	rejectedPalette = Palette{Background: "#FDEDEC", Border: "#c0392b", Text: "#922B21", PageAccent: "#922B21"}
)

// Panel is the view model of the result card.
type Panel struct {
	Approved bool
	Icon     string
	Title    string
	Label    string
	Percent  string
	Palette  Palette
	Model    string
	TraceID  string
	Gauge    string
}

// NewPanel picks the approved or rejected card from the predicted label.
func NewPanel(res predict.Result) Panel {
	p := Panel{
		Approved: res.Approved,
		Percent:  FormatPercent(res.ConfidencePercent),
		Model:    res.Model,
		TraceID:  res.TraceID,
	}
	if res.Approved {
		p.Icon = "✅"
		p.Title = "Loan Approved"
		p.Label = "Approval Confidence"
		p.Palette = approvedPalette
	} else {
		p.Icon = "❌"
		p.Title = "Loan Rejected"
		p.Label = "Approval Chance"
		p.Palette = rejectedPalette
	}
	return p
}

// FormatPercent renders a [0,100] value with exactly two decimals and a
// trailing percent sign.
func FormatPercent(v float64) string {
	return roundPercent(v).StringFixed(2) + "%"
}

func roundPercent(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	d := decimal.NewFromFloat(v)
	switch {
	case d.LessThan(decimal.Zero):
		d = decimal.Zero
	case d.GreaterThan(decimal.NewFromInt(100)):
		d = decimal.NewFromInt(100)
	}
	return d.Round(2)
}

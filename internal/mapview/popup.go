package mapview

//go:generate templ generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/samirrijal/geodash/internal/core/domain"
)

const (
	currencySymbol = "₾"
	notAvailable   = "N/A"
)

// PercentSpent returns spent/allocated*100. It is NaN when the allocation
// is zero, negative or missing.
func PercentSpent(spent, allocated float64) float64 {
	if allocated <= 0 || math.IsNaN(allocated) || math.IsNaN(spent) {
		return math.NaN()
	}
	return spent / allocated * 100
}

// FormatPercent renders a percentage with one decimal, or "N/A".
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return notAvailable
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// Formatter renders popup values for one locale.
type Formatter struct {
	printer    *message.Printer
	dateLayout string
}

// NewFormatter returns a Formatter for tag. An empty layout falls back to
// DateLayoutFor(tag).
func NewFormatter(tag language.Tag, dateLayout string) *Formatter {
	if dateLayout == "" {
		dateLayout = DateLayoutFor(tag)
	}
	return &Formatter{printer: message.NewPrinter(tag), dateLayout: dateLayout}
}

// DateLayoutFor returns the conventional numeric date order for a locale.
// Regions that write month first keep month/day/year; most of Europe and
// the Caucasus use day first, East Asia year first. Anything unrecognized
// gets ISO-8601.
func DateLayoutFor(tag language.Tag) string {
	base, _ := tag.Base()
	region, _ := tag.Region()

	switch region.String() {
	case "US", "PH", "FM", "MH", "PW":
		return "1/2/2006"
	}
	switch base.String() {
	case "en", "fr", "es", "it", "pt", "el", "nl":
		return "02/01/2006"
	case "ka", "de", "ru", "uk", "pl", "tr", "az", "hy", "cs", "fi", "nb", "da":
		return "02.01.2006"
	case "ja", "zh", "ko":
		return "2006/01/02"
	default:
		return time.DateOnly
	}
}

// Currency groups thousands: 1150000 → "1,150,000".
func (f *Formatter) Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return notAvailable
	}
	if amount == math.Trunc(amount) && math.Abs(amount) < 1<<53 {
		return f.printer.Sprintf("%d", int64(amount))
	}
	return f.printer.Sprintf("%.2f", amount)
}

// Date renders an ISO-8601 date for display, or "N/A" when unparseable.
func (f *Formatter) Date(s string) string {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(f.dateLayout)
		}
	}
	return notAvailable
}

// PopupContent is the formatted text of a project popup.
type PopupContent struct {
	Name          string
	Description   string
	Status        string
	StatusColor   string
	Budget        string
	Timeline      string
	FundingSource string
}

// Popup formats a feature property bag. Missing or mistyped properties
// render as placeholders rather than failing.
func (f *Formatter) Popup(props map[string]any) PopupContent {
	spent := propFloat(props, propBudgetSpent)
	allocated := propFloat(props, propBudgetAlloc)

	percent := FormatPercent(PercentSpent(spent, allocated))
	if percent != notAvailable {
		percent += "%"
	}

	status := propString(props, propStatus)
	funding := propString(props, propFundingSource)
	if !domain.FundingSource(funding).Known() {
		funding = "Unknown"
	}

	return PopupContent{
		Name:        propString(props, propName),
		Description: propString(props, propDescription),
		Status:      status,
		StatusColor: StatusColor(status),
		Budget: fmt.Sprintf("%s%s / %s%s (%s)",
			currencySymbol, f.Currency(spent),
			currencySymbol, f.Currency(allocated),
			percent),
		Timeline: f.Date(propString(props, propStartDate)) + " - " +
			f.Date(propString(props, propCompletionDate)),
		FundingSource: funding,
	}
}

// Component renders the popup body.
func (c PopupContent) Component() templ.Component {
	return popupBody(c)
}

// HTML renders the popup body to a string.
func (c PopupContent) HTML(ctx context.Context) (string, error) {
	var b bytes.Buffer
	if err := c.Component().Render(ctx, &b); err != nil {
		return "", fmt.Errorf("render popup: %w", err)
	}
	return b.String(), nil
}

func propString(props map[string]any, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func propFloat(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

package mood

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/panbanda/mood/pkg/ir"
)

// Factor is a metric value. It is NaN when the ratio's denominator is zero.
type Factor float64

// Defined reports whether f is a finite number.
func (f Factor) Defined() bool {
	v := float64(f)
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// String formats f with at least one fractional digit. Magnitudes below
// 1e-3 or from 1e7 up use scientific notation.
func (f Factor) String() string {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	if a := math.Abs(v); a != 0 && (a < 1e-3 || a >= 1e7) {
		return scientific(v)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// scientific renders v as 1.0E-4 rather than Go's 1E-04.
func scientific(v float64) string {
	s := strconv.FormatFloat(v, 'E', -1, 64)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-0")
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp
}

// MarshalJSON encodes undefined values as null.
func (f Factor) MarshalJSON() ([]byte, error) {
	if !f.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

// Ratio holds the raw sums a metric is computed from.
type Ratio struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// Value divides the sums. A zero denominator yields NaN, or +Inf for a positive numerator.
func (r Ratio) Value() Factor {
	return Factor(float64(r.Numerator) / float64(r.Denominator))
}

// MetricNames lists the metrics in report order.
var MetricNames = []string{"MHF", "AHF", "MIF", "AIF", "POF", "COF"}

// Metrics are the six MOOD factors of an analyzed class set.
type Metrics struct {
	MHF Factor `json:"mhf"`
	AHF Factor `json:"ahf"`
	MIF Factor `json:"mif"`
	AIF Factor `json:"aif"`
	POF Factor `json:"pof"`
	COF Factor `json:"cof"`
}

// Values returns the factors in MetricNames order.
func (m Metrics) Values() []Factor {
	return []Factor{m.MHF, m.AHF, m.MIF, m.AIF, m.POF, m.COF}
}

// Write prints one "NAME = value" line per metric.
func (m Metrics) Write(w io.Writer) error {
	for i, v := range m.Values() {
		if _, err := fmt.Fprintf(w, "%s = %s\n", MetricNames[i], v); err != nil {
			return err
		}
	}
	return nil
}

// Ratios holds the sums behind each factor.
type Ratios struct {
	MHF Ratio `json:"mhf"`
	AHF Ratio `json:"ahf"`
	MIF Ratio `json:"mif"`
	AIF Ratio `json:"aif"`
	POF Ratio `json:"pof"`
	COF Ratio `json:"cof"`
}

// Metrics evaluates every ratio.
func (r Ratios) Metrics() Metrics {
	return Metrics{
		MHF: r.MHF.Value(),
		AHF: r.AHF.Value(),
		MIF: r.MIF.Value(),
		AIF: r.AIF.Value(),
		POF: r.POF.Value(),
		COF: r.COF.Value(),
	}
}

func countHidden[T any](members []T, access func(T) ir.Access) (hidden int) {
	for _, m := range members {
		if access(m).IsHidden() {
			hidden++
		}
	}
	return hidden
}

// hidingRatios sums hidden members over the declared lists of every class.
func hidingRatios(classes []*ir.Class) (mhf, ahf Ratio) {
	for _, c := range classes {
		mhf.Numerator += countHidden(c.Methods, func(m ir.Method) ir.Access { return m.Access })
		mhf.Denominator += len(c.Methods)
		ahf.Numerator += countHidden(c.Attributes, func(a ir.Attribute) ir.Access { return a.Access })
		ahf.Denominator += len(c.Attributes)
	}
	return mhf, ahf
}

// couplings returns the names of classes (self included) that some declared
// attribute of c references, by textual containment in its type descriptor.
func couplings(c *ir.Class, classes []*ir.Class) []string {
	var out []string
	for _, other := range classes {
		for _, a := range c.Attributes {
			if strings.Contains(a.TypeDescriptor, other.Name) {
				out = append(out, other.Name)
				break
			}
		}
	}
	return out
}

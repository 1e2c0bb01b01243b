package tito

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	go_json "github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a monetary value in minor units (cents).
// Tito sends totals as decimal strings ("10.00"); plain JSON numbers are accepted too.
type Amount int64

var (
	_ go_json.Unmarshaler = (*Amount)(nil)
	_ go_json.Marshaler   = Amount(0)
	_ fmt.Stringer        = Amount(0)
)

func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
		cents := math.Round(f * 100)
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if math.IsNaN(cents) || cents >= math.MaxInt64 || cents < math.MinInt64 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
		}
		return Amount(cents), nil
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	var units int64
	if whole != "" {
		w, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || w > math.MaxInt64/100 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
		}
		units = w * 100
	}

	// round half away from zero on the third fractional digit
	frac += "000"
	cents, _ := strconv.ParseInt(frac[:2], 10, 64)
	if frac[2] >= '5' {
		cents++
	}
	if units > math.MaxInt64-cents {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	units += cents

	if neg {
		units = -units
	}
	return Amount(units), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := go_json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, raw)
		}
		raw = s
	}

	parsed, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON encodes the amount as a decimal number with two places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// String renders the plain decimal form, e.g. "10.00".
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Currency renders the amount the way the notifiers display money, e.g. "$1,234.50".
func (a Amount) Currency() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	p := message.NewPrinter(language.English)
	return sign + "$" + p.Sprintf("%d", v/100) + fmt.Sprintf(".%02d", v%100)
}

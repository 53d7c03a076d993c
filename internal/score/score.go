// Package score implements the polymorphic big-number type used for scores on
// the wire. The client population is bimodal: vanilla clients report ordinary
// doubles, modded clients report arbitrary-magnitude values in one of several
// shapes. All shapes interoperate on a single score channel; unknown symbolic
// forms are preserved verbatim so the server stays monotone over tiers it
// cannot evaluate.
package score

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind discriminates the wire shape of a Number.
type Kind int

const (
	// KindRegular is an ordinary float64.
	KindRegular Kind = iota
	// KindBig is a mantissa/exponent pair: value = m * 10^e.
	KindBig
	// KindOmega is a hyper-exponential tower array with a sign.
	KindOmega
	// KindNotation is an untouched symbolic string like "eeeee1.234e56789".
	KindNotation
)

// Number is a score value in one of four wire shapes. The zero value is
// Regular(0). Numbers are freely copyable; only the decoders (DecodeMsgpack,
// UnmarshalJSON) write through their receiver, and no other method mutates.
type Number struct {
	kind     Kind
	regular  float64
	mantissa float64
	exponent float64
	array    []float64
	sign     int32
	notation string
}

// Regular returns a Number holding an ordinary float64.
func Regular(v float64) Number {
	return Number{kind: KindRegular, regular: v}
}

// Big returns a Number holding m * 10^e.
func Big(m, e float64) Number {
	return Number{kind: KindBig, mantissa: m, exponent: e}
}

// Omega returns a Number holding a hyper-exponential tower.
func Omega(array []float64, sign int32) Number {
	return Number{kind: KindOmega, array: array, sign: sign}
}

// Notation returns a Number preserving a symbolic notation string verbatim.
func Notation(s string) Number {
	return Number{kind: KindNotation, notation: s}
}

// Zero returns Regular(0), the identity for accumulation.
func Zero() Number {
	return Regular(0)
}

// Kind reports the shape of the number.
func (n Number) Kind() Kind { return n.kind }

// Float64 converts to a plain float64 when the value fits, reporting whether
// the conversion was possible.
func (n Number) Float64() (float64, bool) {
	switch n.kind {
	case KindRegular:
		return n.regular, true
	case KindBig:
		if math.Abs(n.exponent) < 308 {
			return n.mantissa * math.Pow(10, n.exponent), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// IsZero reports whether the number is effectively zero.
func (n Number) IsZero() bool {
	switch n.kind {
	case KindRegular:
		return n.regular == 0
	case KindBig:
		return n.mantissa == 0
	case KindOmega:
		return len(n.array) == 0 || n.array[0] == 0
	case KindNotation:
		return n.notation == "0" || n.notation == "0.0"
	}
	return false
}

// IsNegative reports whether the number is below zero.
func (n Number) IsNegative() bool {
	switch n.kind {
	case KindRegular:
		return n.regular < 0
	case KindBig:
		return n.mantissa < 0
	case KindOmega:
		return n.sign < 0
	case KindNotation:
		return strings.HasPrefix(n.notation, "-")
	}
	return false
}

// EstimateMagnitude maps any shape onto a single comparison axis: roughly the
// base-10 logarithm for values small enough to evaluate, and coarse tier
// estimates for tower and symbolic shapes.
func (n Number) EstimateMagnitude() float64 {
	switch n.kind {
	case KindRegular:
		if math.IsInf(n.regular, 0) {
			return math.Inf(1)
		}
		if math.IsNaN(n.regular) {
			return math.Inf(-1)
		}
		return math.Max(math.Log10(math.Abs(n.regular)), 0)
	case KindBig:
		return n.exponent
	case KindOmega:
		if len(n.array) == 0 {
			return 0
		}
		if len(n.array) == 1 {
			return math.Max(math.Log10(n.array[0]), 0)
		}
		return n.array[0] + float64(len(n.array)-1)*1000
	case KindNotation:
		if strings.Contains(n.notation, "##") {
			return 1e6
		}
		if strings.Contains(n.notation, "#") {
			return 1e3 + float64(strings.Count(n.notation, "#"))*100
		}
		return float64(leadingECount(n.notation)) * 1000
	}
	return 0
}

// Cmp compares two numbers: negative values order below nonnegative ones,
// then estimated magnitudes decide. Magnitude ties compare equal.
func (n Number) Cmp(other Number) int {
	switch {
	case n.IsNegative() && !other.IsNegative():
		return -1
	case !n.IsNegative() && other.IsNegative():
		return 1
	}
	a, b := n.EstimateMagnitude(), other.EstimateMagnitude()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less reports whether n orders strictly below other.
func (n Number) Less(other Number) bool { return n.Cmp(other) < 0 }

// Greater reports whether n orders strictly above other.
func (n Number) Greater(other Number) bool { return n.Cmp(other) > 0 }

// Add combines two numbers. Regular pairs sum as float64; Big pairs shift to
// the larger exponent and add mantissas, and exponents more than 15 apart make
// the smaller operand negligible. Every other combination (mixed shapes, and
// Omega or Notation pairs) returns the operand with the larger estimated
// magnitude, so a Big score added onto the Regular zero accumulator comes back
// unchanged.
func (n Number) Add(other Number) Number {
	switch {
	case n.kind == KindRegular && other.kind == KindRegular:
		return Regular(n.regular + other.regular)
	case n.kind == KindBig && other.kind == KindBig:
		if math.Abs(n.exponent-other.exponent) > 15 {
			if n.exponent > other.exponent {
				return n
			}
			return other
		}
		maxE := math.Max(n.exponent, other.exponent)
		m1 := n.mantissa * math.Pow(10, n.exponent-maxE)
		m2 := other.mantissa * math.Pow(10, other.exponent-maxE)
		return Big(m1+m2, maxE)
	default:
		if n.EstimateMagnitude() >= other.EstimateMagnitude() {
			return n
		}
		return other
	}
}

// FromValue parses a decoded wire value (scalar, {m,e} map, {array,sign} map,
// or notation string) into a Number.
func FromValue(v interface{}) (Number, error) {
	switch val := v.(type) {
	case string:
		return ParseNotation(val)
	case float64:
		return Regular(val), nil
	case float32:
		return Regular(float64(val)), nil
	case int:
		return Regular(float64(val)), nil
	case int8:
		return Regular(float64(val)), nil
	case int16:
		return Regular(float64(val)), nil
	case int32:
		return Regular(float64(val)), nil
	case int64:
		return Regular(float64(val)), nil
	case uint:
		return Regular(float64(val)), nil
	case uint8:
		return Regular(float64(val)), nil
	case uint16:
		return Regular(float64(val)), nil
	case uint32:
		return Regular(float64(val)), nil
	case uint64:
		return Regular(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Number{}, fmt.Errorf("score: parse %q: %w", val.String(), err)
		}
		return Regular(f), nil
	case map[string]interface{}:
		if m, okM := val["m"]; okM {
			if e, okE := val["e"]; okE {
				return Big(toFloat(m), toFloat(e)), nil
			}
		}
		if arr, okA := val["array"]; okA {
			if sign, okS := val["sign"]; okS {
				list, _ := arr.([]interface{})
				parsed := make([]float64, 0, len(list))
				for _, item := range list {
					parsed = append(parsed, toFloat(item))
				}
				return Omega(parsed, int32(toFloat(sign))), nil
			}
		}
		return Number{}, fmt.Errorf("score: invalid number format")
	default:
		return Number{}, fmt.Errorf("score: invalid number format")
	}
}

// ParseNotation parses a client-reported notation string.
func ParseNotation(notation string) (Number, error) {
	if notation == "" {
		return Regular(0), nil
	}
	if notation == "Infinity" || notation == "inf" {
		return Regular(math.Inf(1)), nil
	}
	if notation == "nan" || notation == "NaN" {
		return Regular(math.NaN()), nil
	}

	clean := strings.ReplaceAll(notation, ",", "")

	if strings.HasPrefix(clean, "e") {
		if strings.Contains(clean, "##") || strings.Contains(clean, "#") {
			// Hyper and ultra-extreme notations stay symbolic.
			return Notation(clean), nil
		}
		if leadingECount(clean) > 1 {
			// Multiple exponentials: "eeeee1.234e56789".
			return Notation(clean), nil
		}
		return parseDoubleExponential(clean[1:])
	}

	if strings.Contains(clean, "e") {
		if val, err := strconv.ParseFloat(clean, 64); err == nil {
			if !math.IsInf(val, 0) && !math.IsNaN(val) {
				return Regular(val), nil
			}
			// Overflowed to Inf: the exponent is too large for float64.
			return parseScientific(clean)
		}
		return parseScientific(clean)
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return Number{}, fmt.Errorf("score: parse %q: %w", notation, err)
	}
	return Regular(val), nil
}

func parseScientific(notation string) (Number, error) {
	parts := strings.Split(notation, "e")
	if len(parts) != 2 {
		return Number{}, fmt.Errorf("score: invalid scientific notation %q", notation)
	}
	m, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Number{}, fmt.Errorf("score: parse mantissa of %q: %w", notation, err)
	}
	e, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Number{}, fmt.Errorf("score: parse exponent of %q: %w", notation, err)
	}
	return Big(m, e), nil
}

// parseDoubleExponential handles the "1.234e56789" tail of "e1.234e56789",
// which denotes 10^(m * 10^e) and is stored as a two-level tower.
func parseDoubleExponential(notation string) (Number, error) {
	if strings.Contains(notation, "e") {
		parts := strings.Split(notation, "e")
		if len(parts) != 2 {
			return Notation("e" + notation), nil
		}
		m, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return Number{}, fmt.Errorf("score: parse %q: %w", notation, err)
		}
		e, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return Number{}, fmt.Errorf("score: parse %q: %w", notation, err)
		}
		return Omega([]float64{m * math.Pow(10, e), 2}, 1), nil
	}
	val, err := strconv.ParseFloat(notation, 64)
	if err != nil {
		return Number{}, fmt.Errorf("score: parse %q: %w", notation, err)
	}
	return Omega([]float64{val, 1}, 1), nil
}

// BalatroNotation renders the number as a display string with the given number
// of mantissa decimal places.
func (n Number) BalatroNotation(places int) string {
	switch n.kind {
	case KindRegular:
		if math.IsInf(n.regular, 1) {
			return "Infinity"
		}
		if math.IsInf(n.regular, -1) {
			return "-Infinity"
		}
		if math.IsNaN(n.regular) {
			return "nan"
		}
		if math.Abs(n.regular) < 1e6 {
			if n.regular == math.Trunc(n.regular) {
				return formatWithCommas(int64(n.regular))
			}
			return strconv.FormatFloat(n.regular, 'f', 2, 64)
		}
		return formatScientific(n.regular, 3)
	case KindBig:
		if n.exponent < 1e6 {
			return fmt.Sprintf("%.*fe%s", places, n.mantissa, formatExponent(n.exponent))
		}
		// Double exponential form for astronomically large exponents.
		logE := math.Log10(n.exponent)
		mantissa := math.Pow(10, logE-math.Floor(logE))
		exp := math.Floor(logE)
		return fmt.Sprintf("e%.*fe%s", places, mantissa, formatExponent(exp))
	case KindOmega:
		if len(n.array) == 0 {
			return "0"
		}
		signStr := ""
		if n.sign < 0 {
			signStr = "-"
		}
		if len(n.array) <= 2 {
			eCount := 1
			if len(n.array) == 2 {
				eCount = int(n.array[1])
			}
			if eCount > 8 {
				eCount = 8
			}
			mantissa := math.Pow(10, n.array[0]-math.Floor(n.array[0]))
			exp := math.Floor(n.array[0])
			return fmt.Sprintf("%s%s%.*fe%s", signStr, strings.Repeat("e", eCount), places, mantissa, formatExponent(exp))
		}
		rest := make([]string, 0, len(n.array)-1)
		for _, x := range n.array[1:] {
			rest = append(rest, strconv.FormatInt(int64(x), 10))
		}
		return fmt.Sprintf("%se%.*f#%s", signStr, places, n.array[0], strings.Join(rest, "#"))
	case KindNotation:
		return n.notation
	}
	return "0"
}

// String renders with three decimal places.
func (n Number) String() string {
	return n.BalatroNotation(3)
}

// EncodeMsgpack writes the number in its wire shape: scalar, {m,e} map,
// {array,sign} map, or string.
func (n Number) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch n.kind {
	case KindRegular:
		return enc.EncodeFloat64(n.regular)
	case KindBig:
		return enc.Encode(struct {
			M float64 `msgpack:"m"`
			E float64 `msgpack:"e"`
		}{n.mantissa, n.exponent})
	case KindOmega:
		return enc.Encode(struct {
			Array []float64 `msgpack:"array"`
			Sign  int32     `msgpack:"sign"`
		}{n.array, n.sign})
	case KindNotation:
		return enc.EncodeString(n.notation)
	}
	return fmt.Errorf("score: unknown kind %d", n.kind)
}

// DecodeMsgpack reads any admissible wire shape.
func (n *Number) DecodeMsgpack(dec *msgpack.Decoder) error {
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	parsed, err := FromValue(v)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// MarshalJSON mirrors the msgpack shapes for diagnostic output. Non-finite
// regulars are emitted as their notation strings since JSON has no Inf/NaN.
func (n Number) MarshalJSON() ([]byte, error) {
	switch n.kind {
	case KindRegular:
		if math.IsInf(n.regular, 0) || math.IsNaN(n.regular) {
			return json.Marshal(n.BalatroNotation(3))
		}
		return json.Marshal(n.regular)
	case KindBig:
		return json.Marshal(struct {
			M float64 `json:"m"`
			E float64 `json:"e"`
		}{n.mantissa, n.exponent})
	case KindOmega:
		return json.Marshal(struct {
			Array []float64 `json:"array"`
			Sign  int32     `json:"sign"`
		}{n.array, n.sign})
	case KindNotation:
		return json.Marshal(n.notation)
	}
	return nil, fmt.Errorf("score: unknown kind %d", n.kind)
}

// UnmarshalJSON accepts any admissible wire shape.
func (n *Number) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := FromValue(v)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func leadingECount(s string) int {
	count := 0
	for _, c := range s {
		if c != 'e' {
			break
		}
		count++
	}
	return count
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int8:
		return float64(val)
	case int16:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint8:
		return float64(val)
	case uint16:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	default:
		return 0
	}
}

func formatWithCommas(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// formatScientific renders like "1.234e8": no plus sign, no zero padding.
func formatScientific(v float64, places int) string {
	exp := math.Floor(math.Log10(math.Abs(v)))
	mantissa := v / math.Pow(10, exp)
	return fmt.Sprintf("%.*fe%d", places, mantissa, int64(exp))
}

func formatExponent(e float64) string {
	if math.Abs(e) >= 1e6 {
		return formatScientific(e, 3)
	}
	return strconv.FormatInt(int64(e), 10)
}

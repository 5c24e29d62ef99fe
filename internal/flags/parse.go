package flags

import "math"

// Delimiter separates tokens in a flag expression.
const Delimiter = '|'

// Parse reduces a pipe-delimited flag expression to a spawn attribute mask
// using the built-in constant table. See ParseWith.
func Parse(expr string) int16 {
	return ParseWith(expr, table[:])
}

// ParseWith reduces expr to a mask by OR-ing the value of every non-empty
// token. A token resolves, in order, to the first constant with exactly that
// name, then (if still zero) to a 0x/0X hex literal, then (if still zero) to
// a leading decimal integer. Numeric values are truncated to 16 bits.
//
// Parsing is deliberately non-strict: unknown names and malformed numbers
// contribute zero instead of failing, so scripts written against older flag
// sets keep working. A constant whose value is zero is indistinguishable from
// an unknown name and falls through to numeric parsing.
func ParseWith(expr string, consts []Constant) int16 {
	var mask int16
	start := 0
	for i := 0; i <= len(expr); i++ {
		if i < len(expr) && expr[i] != Delimiter {
			continue
		}
		if i > start {
			mask |= resolve(expr[start:i], consts)
		}
		start = i + 1
	}
	return mask
}

func resolve(tok string, consts []Constant) int16 {
	v, _ := lookup(tok, consts)
	if v == 0 && len(tok) > 2 && tok[0] == '0' && (tok[1] == 'x' || tok[1] == 'X') {
		v = int16(parseLong(tok, 16))
	}
	if v == 0 {
		v = int16(parseLong(tok, 10))
	}
	return v
}

// parseLong follows C strtol: leading white space, an optional sign, an
// optional 0x prefix for base 16, then the longest run of valid digits.
// Out of range results saturate at the int64 limits. No digits yields 0.
func parseLong(s string, base int) int64 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	if base == 16 && i+2 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		if _, ok := digit(s[i+2], base); ok {
			i += 2
		}
	}

	var n uint64
	overflow := false
	for ; i < len(s); i++ {
		d, ok := digit(s[i], base)
		if !ok {
			break
		}
		if overflow {
			continue
		}
		if n > (math.MaxUint64-d)/uint64(base) {
			overflow = true
			continue
		}
		n = n*uint64(base) + d
	}

	switch {
	case neg && (overflow || n > 1<<63):
		return math.MinInt64
	case !neg && (overflow || n > math.MaxInt64):
		return math.MaxInt64
	case neg:
		return -int64(n)
	}
	return int64(n)
}

func digit(c byte, base int) (uint64, bool) {
	var d uint64
	switch {
	case c >= '0' && c <= '9':
		d = uint64(c - '0')
	case c >= 'a' && c <= 'z':
		d = uint64(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		d = uint64(c-'A') + 10
	default:
		return 0, false
	}
	if d >= uint64(base) {
		return 0, false
	}
	return d, true
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

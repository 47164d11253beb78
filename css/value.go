// Package css handles the small subset of CSS chapter content carries:
// inline style attributes and the generated preview stylesheet.
package css

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2/css"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original value string (e.g., "1.2em", "center", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "center", "bold", etc.
}

// IsNumeric returns true if the value has a numeric component, explicit
// zero ("0", "0px") included.
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		first := rune(v.Raw[0])
		if unicode.IsDigit(first) || first == '.' || first == '-' || first == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Px converts length to pixels. Relative units are resolved against base
// font size. Unsupported units report false.
func (v Value) Px(base float64) (float64, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	switch v.Unit {
	case "px", "":
		return v.Value, true
	case "em", "rem":
		return v.Value * base, true
	case "%":
		return v.Value * base / 100, true
	case "pt":
		return v.Value * 4 / 3, true
	}
	return 0, false
}

// Px returns value for pixel length.
func Px(n float64) Value {
	return Value{Raw: strconv.FormatFloat(n, 'f', -1, 64) + "px", Value: n, Unit: "px"}
}

// Keyword returns keyword value.
func Keyword(k string) Value {
	return Value{Raw: k, Keyword: k}
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	var raw strings.Builder
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			raw.Write(t.Data)
		} else if raw.Len() > 0 {
			raw.WriteByte(' ')
		}
	}
	val := Value{Raw: strings.TrimSpace(raw.String())}

	var significant []css.Token
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			significant = append(significant, t)
		}
	}
	if len(significant) != 1 {
		// multi-value properties and functions keep raw value as keyword
		val.Keyword = val.Raw
		return val
	}

	t := significant[0]
	switch t.TokenType {
	case css.DimensionToken:
		val.Value, val.Unit = parseDimension(string(t.Data))
	case css.PercentageToken:
		val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
		val.Unit = "%"
	case css.NumberToken:
		val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
	case css.IdentToken:
		val.Keyword = strings.ToLower(string(t.Data))
	case css.StringToken:
		val.Keyword = unquote(string(t.Data))
	default:
		val.Keyword = val.Raw
	}
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	return num, strings.ToLower(s[numEnd:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

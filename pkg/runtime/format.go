package runtime

import (
	"math"
	"strconv"
	"strings"
)

// FormatValue renders a value the way print and the REPL show it.
func FormatValue(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// FormatNumber renders a number in its shortest round-trip form.
func FormatNumber(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "+Inf"
	case math.IsInf(n, -1):
		return "-Inf"
	case math.IsNaN(n):
		return "NaN"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func writeValue(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil, NullValue:
		b.WriteString("null")
	case BoolValue:
		b.WriteString(strconv.FormatBool(val.Val))
	case NumberValue:
		b.WriteString(FormatNumber(val.Val))
	case *ObjectValue:
		keys := val.Keys()
		if len(keys) == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteString("{ ")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, val.Properties[k])
		}
		b.WriteString(" }")
	case *FunctionValue:
		b.WriteString("fn ")
		b.WriteString(val.Name)
		b.WriteByte('(')
		b.WriteString(strings.Join(val.Params, ", "))
		b.WriteByte(')')
	case NativeFunctionValue:
		b.WriteString("native fn ")
		b.WriteString(val.Name)
	case *NativeFunctionValue:
		b.WriteString("native fn ")
		b.WriteString(val.Name)
	default:
		b.WriteString("<")
		b.WriteString(v.Kind().String())
		b.WriteString(">")
	}
}

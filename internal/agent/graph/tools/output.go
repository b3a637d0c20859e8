package tools

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
)

// marshalPlain renders tool output as the text the model reads. Strings pass
// through unquoted and floats always carry a fractional part.
func marshalPlain(_ context.Context, output any) (string, error) {
	switch v := output.(type) {
	case string:
		return v, nil
	case float64:
		return formatFloat(v), nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func formatFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) {
		s += ".0"
	}
	return s
}

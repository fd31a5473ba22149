package backend

import (
	"encoding/json"
	"strings"

	"github.com/BruksfildServices01/barber-booking/internal/shape"
)

const genericErrorMessage = "Error en la solicitud"

// ErrorMessage extracts the human readable error of a non-2xx body:
// detail, then message, then every "field: msg1, msg2" pair joined by "; ",
// then the raw text body.
func ErrorMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return genericErrorMessage
	}

	obj, err := shape.DecodeObject(body)
	if err != nil {
		var v any
		if json.Unmarshal(body, &v) == nil {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
		return trimmed
	}

	for _, key := range []string{"detail", "message"} {
		if v, ok := obj.Get(key); ok {
			if s := flatten(v); s != "" {
				return s
			}
		}
	}

	parts := make([]string, 0, obj.Len())
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		parts = append(parts, key+": "+flatten(v))
	}
	if len(parts) == 0 {
		return genericErrorMessage
	}
	return strings.Join(parts, "; ")
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			items = append(items, flatten(item))
		}
		return strings.Join(items, ", ")
	case map[string]any:
		raw, _ := json.Marshal(t)
		return string(raw)
	default:
		s, _ := shape.String(t)
		return s
	}
}

package service

import (
	"encoding/json"
	"strconv"
	"strings"
)

// firstJSONObject devuelve el primer objeto {...} balanceado de input, ignorando
// llaves dentro de strings. "" si no hay ninguno completo.
func firstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(input); i++ {
		ch := input[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

// jsonMatchFields lee score/reason de un objeto JSON embebido en la respuesta.
// score puede venir como número o como string.
func jsonMatchFields(raw string) (score string, reason string, ok bool) {
	obj := firstJSONObject(raw)
	if obj == "" {
		return "", "", false
	}
	var tmp struct {
		Score  json.RawMessage `json:"score"`
		Reason string          `json:"reason"`
	}
	if err := json.Unmarshal([]byte(obj), &tmp); err != nil {
		return "", "", false
	}

	s := strings.TrimSpace(string(tmp.Score))
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	if s == "null" {
		s = ""
	}
	return strings.TrimSpace(s), strings.TrimSpace(tmp.Reason), s != "" || tmp.Reason != ""
}

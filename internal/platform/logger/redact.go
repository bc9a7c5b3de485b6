package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const redacted = "[REDACTED]"

var redactKeys = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"api_key",
	"apikey",
	"cookie",
}

var hashKeys = []string{"user_id", "session_id"}

type sanitizer struct {
	enabled bool
	salt    string
}

func (s *sanitizer) kvs(kv []any) []any {
	if !s.enabled || len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, s.value(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func (s *sanitizer) value(key string, v any) any {
	for _, k := range redactKeys {
		if strings.Contains(key, k) {
			return redacted
		}
	}
	for _, k := range hashKeys {
		if strings.Contains(key, k) {
			return s.hash(v)
		}
	}
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for mk, mv := range m {
			out[mk] = s.value(strings.ToLower(mk), mv)
		}
		return out
	}
	return v
}

// hash returns a short, salted, stable digest of v.
func (s *sanitizer) hash(v any) string {
	raw := toString(v)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(s.salt))
	h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}

package util

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURI is returned for payloads that are neither a base64 data
// URI nor raw base64.
var ErrInvalidDataURI = errors.New("invalid data uri")

// DecodeDataURI decodes "data:<mime>;base64,<payload>" or a bare base64
// payload. The declared type is used when the URI carries none.
func DecodeDataURI(raw, declaredType string) (string, []byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil, ErrInvalidDataURI
	}
	mimeType := strings.TrimSpace(declaredType)
	payload := raw

	if strings.HasPrefix(raw, "data:") {
		header, body, ok := strings.Cut(raw[len("data:"):], ",")
		if !ok {
			return "", nil, ErrInvalidDataURI
		}
		params := strings.Split(header, ";")
		isBase64 := false
		for _, p := range params[1:] {
			if strings.EqualFold(strings.TrimSpace(p), "base64") {
				isBase64 = true
			}
		}
		if !isBase64 {
			return "", nil, ErrInvalidDataURI
		}
		if t := strings.TrimSpace(params[0]); t != "" {
			mimeType = t
		}
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, ErrInvalidDataURI
		}
	}
	if len(data) == 0 {
		return "", nil, ErrInvalidDataURI
	}
	return strings.ToLower(mimeType), data, nil
}

package domain

import (
	"bytes"
	"encoding/json"

	apperrors "github.com/calshare/calshare/internal/platform/errors"
)

// ErrInvalidUpload indicates a target upload payload that is not a JSON
// object with a "targets" array of scalar values.
var ErrInvalidUpload = apperrors.New(apperrors.CodeInvalidFormat, "invalid target upload payload")

// ParseTargetUpload validates one uploaded target list and returns its
// entries in order. The payload must be a JSON object whose "targets" field
// is an array of scalars; a single structured element invalidates the whole
// batch. Non-string scalars are kept as their literal JSON text.
func ParseTargetUpload(payload []byte) ([]string, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, ErrInvalidUpload
	}
	rawTargets, ok := envelope["targets"]
	if !ok {
		return nil, ErrInvalidUpload
	}
	if trimmed := bytes.TrimSpace(rawTargets); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidUpload
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(rawTargets, &elements); err != nil {
		return nil, ErrInvalidUpload
	}

	targets := make([]string, 0, len(elements))
	for _, element := range elements {
		trimmed := bytes.TrimSpace(element)
		if len(trimmed) == 0 {
			return nil, ErrInvalidUpload
		}
		switch trimmed[0] {
		case '{', '[':
			return nil, ErrInvalidUpload
		case '"':
			var value string
			if err := json.Unmarshal(trimmed, &value); err != nil {
				return nil, ErrInvalidUpload
			}
			targets = append(targets, value)
		default:
			// Numbers, booleans, and null pass validation as scalars and
			// keep their literal form.
			targets = append(targets, string(trimmed))
		}
	}
	return targets, nil
}

package setting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xanhenergy/xanhenergy-admin/internal/db/models"
)

var (
	// ErrInvalidNumber is returned when a value cannot be encoded as a finite number.
	ErrInvalidNumber = errors.New("invalid number for type=number")
	// ErrInvalidBoolean is returned when a value cannot be encoded as a boolean.
	ErrInvalidBoolean = errors.New("invalid boolean for type=boolean")
	// ErrInvalidJSON is returned when a value cannot be encoded as JSON.
	ErrInvalidJSON = errors.New("invalid JSON for type=json")
)

// EncodeValue encodes a raw setting value into its stored string form
// according to the setting type. raw is a decoded JSON value (string,
// float64, bool, map, slice or nil). Unknown types encode as string.
func EncodeValue(settingType string, raw any) (string, error) {
	switch settingType {
	case models.SettingTypeNumber:
		return encodeNumber(raw)
	case models.SettingTypeBoolean:
		return encodeBoolean(raw)
	case models.SettingTypeJSON:
		return encodeJSON(raw)
	default:
		return stringify(raw), nil
	}
}

// DecodeValue decodes a stored string back into a typed value.
// It is the inverse of EncodeValue for well-formed stored values.
func DecodeValue(settingType, stored string) (any, error) {
	switch settingType {
	case models.SettingTypeNumber:
		n, err := strconv.ParseFloat(stored, 64)
		if err != nil {
			return nil, ErrInvalidNumber
		}

		return n, nil
	case models.SettingTypeBoolean:
		return stored == "true", nil
	case models.SettingTypeJSON:
		var out any
		if err := json.Unmarshal([]byte(stored), &out); err != nil {
			return nil, ErrInvalidJSON
		}

		return out, nil
	default:
		return stored, nil
	}
}

func encodeNumber(raw any) (string, error) {
	switch v := raw.(type) {
	case float64:
		return formatNumber(v), nil
	case int:
		return strconv.Itoa(v), nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "", ErrInvalidNumber
		}

		return formatNumber(n), nil
	default:
		return "", ErrInvalidNumber
	}
}

// formatNumber renders without a trailing ".0" so encode("number", "42") == "42".
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func encodeBoolean(raw any) (string, error) {
	if b, ok := raw.(bool); ok {
		return strconv.FormatBool(b), nil
	}

	switch strings.ToLower(stringify(raw)) {
	case "true", "1", "yes":
		return "true", nil
	case "false", "0", "no":
		return "false", nil
	default:
		return "", ErrInvalidBoolean
	}
}

func encodeJSON(raw any) (string, error) {
	// String input must itself parse as JSON; it is re-serialized so the
	// stored form is canonical.
	if s, ok := raw.(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return "", ErrInvalidJSON
		}

		out, err := json.Marshal(parsed)
		if err != nil {
			return "", ErrInvalidJSON
		}

		return string(out), nil
	}

	out, err := json.Marshal(raw)
	if err != nil {
		return "", ErrInvalidJSON
	}

	return string(out), nil
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return formatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

package models

import (
	"encoding/json"

	"go.uber.org/zap"
)

// logger for model conversion errors (silent failures are logged for debugging)
var modelLogger = zap.L().Named("persistence.models")

// marshalStringSlice serializes a string slice to a JSON column value.
// nil and empty slices both persist as "[]".
func marshalStringSlice(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	jsonBytes, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(jsonBytes)
}

// unmarshalStringSlice parses a JSON column value into a string slice.
// Invalid JSON is logged and returned as an empty slice rather than failing the read.
func unmarshalStringSlice(raw, column string) []string {
	if raw == "" || raw == "[]" {
		return make([]string, 0)
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		modelLogger.Warn("failed to parse JSON column",
			zap.String("column", column),
			zap.String("raw_json", raw),
			zap.Error(err))
		return make([]string, 0)
	}
	return values
}

// marshalMetadata serializes a metadata map to a JSON column value.
// nil and empty maps both persist as "{}".
func marshalMetadata(metadata map[string]any) string {
	if len(metadata) == 0 {
		return "{}"
	}
	jsonBytes, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(jsonBytes)
}

// unmarshalMetadata parses a JSON column value into a metadata map.
// Invalid JSON is logged and returned as an empty map rather than failing the read.
func unmarshalMetadata(raw, column string) map[string]any {
	if raw == "" || raw == "{}" {
		return make(map[string]any)
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		modelLogger.Warn("failed to parse JSON column",
			zap.String("column", column),
			zap.String("raw_json", raw),
			zap.Error(err))
		return make(map[string]any)
	}
	return metadata
}

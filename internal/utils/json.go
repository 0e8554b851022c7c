package utils

import (
	"github.com/goccy/go-json"
)

var encodeOptions = []json.EncodeOptionFunc{json.DisableHTMLEscape(), json.DisableNormalizeUTF8()}

func MarshalJSON(val any) ([]byte, error) {
	return json.MarshalWithOption(val, encodeOptions...)
}

func MarshalJSONIndent(val any, indent string) ([]byte, error) {
	return json.MarshalIndentWithOption(val, "", indent, encodeOptions...)
}

func UnmarshalJSON(data []byte, val any) error {
	return json.Unmarshal(data, val)
}

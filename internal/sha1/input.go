package sha1

import "github.com/autobrr/mksha1/internal/convert"

type inputKind uint8

const (
	inputNone inputKind = iota
	inputText
	inputBytes
)

// Input is data for Update or Hash: either Text or Bytes. The zero Input is
// rejected with ErrInvalidInput.
type Input struct {
	kind inputKind
	text string
	data []byte
}

// Text wraps s. Each code unit contributes its low 8 bits, see
// convert.BytesFromText.
func Text(s string) Input {
	return Input{kind: inputText, text: s}
}

// Bytes wraps b. A nil or empty b is a valid empty message.
func Bytes(b []byte) Input {
	return Input{kind: inputBytes, data: b}
}

func (in Input) resolve() ([]byte, error) {
	switch in.kind {
	case inputText:
		return convert.BytesFromText(in.text), nil
	case inputBytes:
		return in.data, nil
	default:
		return nil, ErrInvalidInput
	}
}

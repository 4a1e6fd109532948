package protocol

import (
	"encoding/json"
	"errors"
)

// ErrUnknownMessageType is returned by Marshal for a value that isn't one
// of this package's message structs.
var ErrUnknownMessageType = errors.New("protocol: unknown message type")

// envelope is decoded first to read the discriminating type tag before the
// full message shape is known.
type envelope struct {
	Type string `json:"type"`
}

// Marshal serializes a message to its JSON wire form.
func Marshal(v interface{}) ([]byte, error) {
	switch v.(type) {
	case *Join, *ActionMessage,
		*Waiting, *GameStart, *HandStart, *ActionRequest, *ActionResult,
		*HandEnd, *GameEnd, *Error:
		return json.Marshal(v)
	default:
		return nil, ErrUnknownMessageType
	}
}

// PeekType reads only the "type" discriminator out of a raw inbound frame,
// without decoding the rest of the payload.
func PeekType(data []byte) (string, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return "", err
	}
	return e.Type, nil
}

// DecodeJoin decodes an inbound frame already known (via PeekType) to be a
// join message.
func DecodeJoin(data []byte) (*Join, error) {
	var m Join
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeAction decodes an inbound frame already known (via PeekType) to be
// an action message.
func DecodeAction(data []byte) (*ActionMessage, error) {
	var m ActionMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

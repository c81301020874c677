package log

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// A .xlog file is a bare stream of CBOR maps with integer keys, one per
// event. The framing is self-delimiting, so files can be appended to
// across runs and scanned without an index. Encoding is deterministic
// and keeps nanosecond timestamp precision across the round trip.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: encoder mode: %v", err))
	}
	encMode = em

	// Decoding stays lenient: events written by a newer runtime with
	// extra fields must still yield their known fields.
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: decoder mode: %v", err))
	}
	decMode = dm
}

// EncodeEvent encodes one event to its wire form.
func EncodeEvent(event Event) ([]byte, error) {
	return encMode.Marshal(event)
}

// DecodeEvent decodes one event from its wire form.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an encoder writing the .xlog framing to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a decoder reading the .xlog framing from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

var ErrUnknownFormat = errors.New("unknown report format")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// core deterministic encoding gives byte identical output for equal reports
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = (cbor.DecOptions{}).DecMode(); err != nil {
		panic(err)
	}
}

// Encode writes r to w in the named format. json is indented and newline
// terminated.
func Encode(w io.Writer, format string, r Report) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatCBOR:
		data, err := MarshalCBOR(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

func MarshalCBOR(r Report) ([]byte, error) {
	return encMode.Marshal(r)
}

func UnmarshalCBOR(data []byte) (Report, error) {
	var r Report
	if err := decMode.Unmarshal(data, &r); err != nil {
		return Report{}, err
	}
	return r, nil
}

// ContentType is the media type of the named format
func ContentType(format string) string {
	if format == FormatCBOR {
		return "application/cbor"
	}
	return "application/json"
}

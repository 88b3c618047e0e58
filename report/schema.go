package report

import (
	"reflect"

	"github.com/forestrie/go-mmrproofs/digest"
	"github.com/invopop/jsonschema"
)

const digestPattern = "^0x[0-9a-fA-F]{64}$"

// Schema returns the json schema of Report
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == reflect.TypeOf(digest.Digest{}) {
				return &jsonschema.Schema{
					Type:        "string",
					Pattern:     digestPattern,
					Description: "32 byte hash, 0x prefixed hex",
				}
			}
			return nil
		},
	}
	return r.Reflect(&Report{})
}

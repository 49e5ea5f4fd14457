package document

import (
	"github.com/mitchellh/mapstructure"
)

// Decode copies v into out, which must be a pointer to a struct, map or
// slice. Struct fields are matched using their yaml tags; strings decode into
// time.Duration and encoding.TextUnmarshaler fields.
func Decode(v Value, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "yaml",
		Result:  out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(v.Interface())
}

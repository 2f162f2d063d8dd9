package worker

import (
	"encoding/json"

	"github.com/increasinglyHuman/poqpoq/internal/compartment"
)

func jsonUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// goValueToCompartment converts a decoded JSON value (map/slice/string/
// float64/bool/nil from encoding/json) into the matching compartment.Value.
// Event handlers receive one such value: a plain object carrying the
// event's named fields, letting generated or hand-written TSL code
// destructure whatever it needs rather than depending on a fixed
// positional-argument order this package would otherwise have to
// reconstruct per event kind.
func goValueToCompartment(v interface{}) compartment.Value {
	switch val := v.(type) {
	case nil:
		return compartment.Null{}
	case string:
		return compartment.String{Value: val}
	case float64:
		return compartment.Number{Value: val}
	case bool:
		return compartment.Bool{Value: val}
	case []interface{}:
		arr := compartment.Array{Elements: make([]compartment.Value, len(val))}
		for i, e := range val {
			arr.Elements[i] = goValueToCompartment(e)
		}
		return arr
	case map[string]interface{}:
		obj := compartment.NewObject()
		for k, e := range val {
			obj.Pairs[k] = goValueToCompartment(e)
		}
		return obj
	default:
		return compartment.Undefined{}
	}
}

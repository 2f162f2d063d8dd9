package script

import (
	"fmt"

	"github.com/increasinglyHuman/poqpoq/internal/wire"
)

// commandFor converts a this.world/object/container.<method>(...) api-call
// into a typed wire.Command. The table only covers methods the generated
// code (internal/compiler/builtins) actually emits; anything else falls
// through to CmdExtension so a host can still observe and answer it.
func commandFor(method string, args []interface{}) (wire.CommandKind, interface{}, error) {
	switch method {
	case "object.setPosition":
		return wire.CmdSetPosition, wire.SetPositionPayload{Position: argVector(args, 0)}, nil
	case "object.setRotation":
		return wire.CmdSetRotation, wire.SetRotationPayload{Rotation: argRotation(args, 0)}, nil
	case "object.setScale":
		return wire.CmdSetScale, wire.SetScalePayload{Scale: argVector(args, 0)}, nil
	case "object.setColor":
		return wire.CmdSetColor, wire.SetColorPayload{Color: argVector(args, 0), Face: int(argFloat(args, 1))}, nil
	case "object.setAlpha":
		return wire.CmdSetAlpha, wire.SetAlphaPayload{Alpha: argFloat(args, 0), Face: int(argFloat(args, 1))}, nil
	case "object.setTexture":
		return wire.CmdSetTexture, wire.SetTexturePayload{Texture: argString(args, 0), Face: int(argFloat(args, 1))}, nil
	case "object.setText":
		return wire.CmdSetText, wire.SetTextPayload{Text: argString(args, 0), Color: argVector(args, 1), Alpha: argFloat(args, 2)}, nil
	case "object.playSound":
		vol := argFloat(args, 1)
		if len(args) < 2 {
			vol = 1.0
		}
		return wire.CmdPlaySound, wire.PlaySoundPayload{Sound: argString(args, 0), Volume: vol, Loop: false}, nil
	case "object.stopSound":
		return wire.CmdStopSound, wire.StopSoundPayload{}, nil
	case "object.playAnimation":
		return wire.CmdPlayAnimation, wire.PlayAnimationPayload{Animation: argString(args, 0)}, nil
	case "object.stopAnimation":
		return wire.CmdStopAnimation, wire.StopAnimationPayload{Animation: argString(args, 0)}, nil
	case "object.applyImpulse":
		return wire.CmdApplyImpulse, wire.ApplyImpulsePayload{Impulse: argVector(args, 0), Local: false}, nil

	case "world.say":
		return wire.CmdSay, wire.SayPayload{Channel: int(argFloat(args, 0)), Message: argString(args, 1)}, nil
	case "world.whisper":
		return wire.CmdWhisper, wire.SayPayload{Channel: int(argFloat(args, 0)), Message: argString(args, 1)}, nil
	case "world.shout":
		return wire.CmdShout, wire.SayPayload{Channel: int(argFloat(args, 0)), Message: argString(args, 1)}, nil
	case "world.regionSay":
		return wire.CmdRegionSay, wire.SayPayload{Channel: int(argFloat(args, 0)), Message: argString(args, 1)}, nil
	case "world.instantMessage":
		return wire.CmdInstantMessage, wire.InstantMessagePayload{AgentID: argString(args, 0), Message: argString(args, 1)}, nil
	case "world.dialog":
		return wire.CmdDialog, wire.DialogPayload{AgentID: argString(args, 0), Message: argString(args, 1), Buttons: argStringList(args, 2), Channel: int(argFloat(args, 3))}, nil
	case "world.requestPermissions":
		return wire.CmdRequestPermissions, wire.RequestPermissionsPayload{AgentID: argString(args, 0)}, nil
	case "world.httpRequest":
		method, headers := parseHTTPParams(args, 1)
		return wire.CmdHTTPRequest, wire.HTTPRequestPayload{URL: argString(args, 0), Method: method, Body: argString(args, 2), Headers: headers}, nil

	default:
		return wire.CmdExtension, wire.ExtensionPayload{Method: method, Args: argBag(args)}, nil
	}
}

func argBag(args []interface{}) map[string]interface{} {
	bag := make(map[string]interface{}, len(args))
	for i, a := range args {
		bag[argKey(i)] = a
	}
	return bag
}

func argKey(i int) string {
	switch i {
	case 0:
		return "arg0"
	case 1:
		return "arg1"
	case 2:
		return "arg2"
	case 3:
		return "arg3"
	default:
		return "argN"
	}
}

func argVector(args []interface{}, i int) wire.Vector3 {
	m := argMap(args, i)
	return wire.Vector3{X: mapFloat(m, "x"), Y: mapFloat(m, "y"), Z: mapFloat(m, "z")}
}

func argRotation(args []interface{}, i int) wire.Rotation {
	m := argMap(args, i)
	return wire.Rotation{X: mapFloat(m, "x"), Y: mapFloat(m, "y"), Z: mapFloat(m, "z"), S: mapFloat(m, "s")}
}

func argList(args []interface{}, i int) []interface{} {
	if i >= len(args) {
		return nil
	}
	l, _ := args[i].([]interface{})
	return l
}

func argStringList(args []interface{}, i int) []string {
	l := argList(args, i)
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, v := range l {
		if s, ok := v.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprintf("%v", v))
		}
	}
	return out
}

// parseHTTPParams reads the llHTTPRequest params list, a flat sequence of
// name/value pairs (HTTP_METHOD, HTTP_MIME_TYPE, ...), into a wire.HTTPMethod
// and a header map. Unrecognized directives are ignored; the method defaults
// to GET when the list omits HTTP_METHOD.
func parseHTTPParams(args []interface{}, i int) (wire.HTTPMethod, map[string]string) {
	params := argList(args, i)
	method := wire.HTTPGet
	var headers map[string]string

	for j := 0; j+1 < len(params); j += 2 {
		key, _ := params[j].(string)
		val, _ := params[j+1].(string)
		switch key {
		case "HTTP_METHOD":
			switch val {
			case "POST":
				method = wire.HTTPPost
			case "PUT":
				method = wire.HTTPPut
			case "DELETE":
				method = wire.HTTPDelete
			default:
				method = wire.HTTPGet
			}
		case "HTTP_MIME_TYPE":
			if headers == nil {
				headers = map[string]string{}
			}
			headers["Content-Type"] = val
		}
	}

	return method, headers
}

func argMap(args []interface{}, i int) map[string]interface{} {
	if i >= len(args) {
		return nil
	}
	m, _ := args[i].(map[string]interface{})
	return m
}

func mapFloat(m map[string]interface{}, key string) float64 {
	if m == nil {
		return 0
	}
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

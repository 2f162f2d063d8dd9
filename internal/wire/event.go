package wire

import (
	"encoding/json"
	"fmt"
)

// EventKind tags the ~20 ScriptEvent payload variants the host delivers
// toward a script.
type EventKind string

const (
	EvtTouchStart EventKind = "touchStart"
	EvtTouch      EventKind = "touch"
	EvtTouchEnd   EventKind = "touchEnd"

	EvtCollisionStart EventKind = "collisionStart"
	EvtCollision      EventKind = "collision"
	EvtCollisionEnd   EventKind = "collisionEnd"

	EvtRez             EventKind = "rez"
	EvtChanged         EventKind = "changed"
	EvtMoney           EventKind = "money"
	EvtPermissions     EventKind = "permissions"
	EvtSensor          EventKind = "sensor"
	EvtNoSensor        EventKind = "noSensor"
	EvtListen          EventKind = "listen"
	EvtHTTPResponse    EventKind = "httpResponse"
	EvtDataserver      EventKind = "dataserver"
	EvtPlayerEnterZone EventKind = "playerEnterZone"
	EvtPlayerLeaveZone EventKind = "playerLeaveZone"
	EvtDayNightCycle   EventKind = "dayNightCycle"
	EvtWeatherChange   EventKind = "weatherChange"
	EvtTimer           EventKind = "timer"

	// EvtLinkMessage: the Link Message Bus dispatches
	// onLinkMessage(senderLink,num,str,id) through the same worker-
	// boundary envelope path every other script-targeted event uses, so
	// it needs a concrete wire shape too.
	EvtLinkMessage EventKind = "linkMessage"
)

// Event is the ScriptEvent envelope: { targetObjectId, targetScriptId?,
// event }. TargetScriptID is empty for a container-broadcast event (every
// script in the container receives it); non-empty for a script-targeted
// one (timer, link message, sensor, permissions, HTTP/dataserver).
type Event struct {
	TargetObjectID string          `json:"targetObjectId"`
	TargetScriptID string          `json:"targetScriptId,omitempty"`
	Kind           EventKind       `json:"event"`
	Payload        json.RawMessage `json:"payload"`
}

// NewEvent marshals payload and wraps it with addressing metadata.
func NewEvent(targetObjectID, targetScriptID string, kind EventKind, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("wire: marshal %s payload: %w", kind, err)
	}
	return Event{TargetObjectID: targetObjectID, TargetScriptID: targetScriptID, Kind: kind, Payload: raw}, nil
}

// DecodeEventPayload unmarshals an Event's payload into T.
func DecodeEventPayload[T any](e Event) (T, error) {
	var out T
	if err := json.Unmarshal(e.Payload, &out); err != nil {
		return out, fmt.Errorf("wire: decode %s payload: %w", e.Kind, err)
	}
	return out, nil
}

type TouchPayload struct {
	Agent string `json:"agent"`
	Face  int    `json:"face"`
}

type CollisionPayload struct {
	Other string `json:"other"`
}

type RezPayload struct {
	StartParam int `json:"startParam"`
}

type ChangedPayload struct {
	Change int `json:"change"`
}

type MoneyPayload struct {
	Agent  string `json:"agent"`
	Amount int    `json:"amount"`
}

type PermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

type SensorDetected struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Position Vector3 `json:"position"`
}

type SensorEventPayload struct {
	Detected []SensorDetected `json:"detected"`
}

type ListenPayload struct {
	Channel    int    `json:"channel"`
	SenderName string `json:"senderName"`
	SenderID   string `json:"senderId"`
	Message    string `json:"message"`
}

type HTTPResponsePayload struct {
	RequestID string            `json:"requestId"`
	Status    int               `json:"status"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body"`
}

type DataserverPayload struct {
	QueryID string `json:"queryId"`
	Data    string `json:"data"`
}

type ZoneTransitionPayload struct {
	Agent    string `json:"agent"`
	ZoneID   string `json:"zoneId"`
	ZoneName string `json:"zoneName"`
}

type DayPhase string

const (
	PhaseDawn  DayPhase = "dawn"
	PhaseDay   DayPhase = "day"
	PhaseDusk  DayPhase = "dusk"
	PhaseNight DayPhase = "night"
)

type DayNightCyclePayload struct {
	Phase DayPhase `json:"phase"`
	Hour  float64  `json:"hour"`
}

type WeatherChangePayload struct {
	Weather   string  `json:"weather"`
	Intensity float64 `json:"intensity"`
}

type TimerPayload struct {
	TimerID string `json:"timerId"`
}

type LinkMessagePayload struct {
	SenderLink int    `json:"senderLink"`
	Num        int    `json:"num"`
	Str        string `json:"str"`
	ID         string `json:"id"`
}

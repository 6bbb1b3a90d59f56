package event

import "reflect"

var (
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
)

func init() {
	RegisterType("EventPlacementStart", EventPlacementStart, &PlacementPayload{})
	RegisterType("EventMixTrigger", EventMixTrigger, nil)
	RegisterType("EventIngredientExit", EventIngredientExit, &IngredientPayload{})
	RegisterType("EventLevelRestart", EventLevelRestart, nil)
	RegisterType("EventLevelNext", EventLevelNext, nil)

	RegisterType("EventMoveComplete", EventMoveComplete, nil)
	RegisterType("EventSettleComplete", EventSettleComplete, nil)
	RegisterType("EventMixStart", EventMixStart, nil)
	RegisterType("EventMixComplete", EventMixComplete, nil)
	RegisterType("EventMixAborted", EventMixAborted, nil)
	RegisterType("EventLevelReset", EventLevelReset, nil)
}

// RegisterType maps a name to an EventType and its payload struct type
// payloadInstance is a pointer to the payload struct, nil for events without payload
// Registration happens during package init only
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType resolves a name, the "Event" prefix is optional
func GetEventType(name string) (EventType, bool) {
	if et, ok := nameToType[name]; ok {
		return et, true
	}
	et, ok := nameToType["Event"+name]
	return et, ok
}

// GetEventName returns the registered name
func GetEventName(et EventType) string {
	return typeToName[et]
}

// NewPayloadStruct returns a pointer to a zero payload for et, nil if none is registered
func NewPayloadStruct(et EventType) any {
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

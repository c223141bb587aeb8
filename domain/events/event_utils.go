package events

import "reflect"

// ExtractTableID returns the event's TableID field, or "" when it has none.
func ExtractTableID(event Event) string {
	return stringField(event, "TableID")
}

// ExtractHandID returns the event's HandID field, or "" for events that
// happen outside a hand.
func ExtractHandID(event Event) string {
	return stringField(event, "HandID")
}

func stringField(event Event, name string) string {
	val := reflect.Indirect(reflect.ValueOf(event))
	if val.Kind() != reflect.Struct {
		return ""
	}

	field := val.FieldByName(name)
	if field.IsValid() && field.Kind() == reflect.String {
		return field.String()
	}
	return ""
}

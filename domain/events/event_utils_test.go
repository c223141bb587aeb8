package events_test

import (
	"testing"

	"github.com/lazharichir/holdem/domain/events"
	"github.com/stretchr/testify/assert"
)

type noTableID struct {
	OtherField string
}

func (noTableID) Name() string { return "noTableID" }

type numericTableID struct {
	TableID int
}

func (numericTableID) Name() string { return "numericTableID" }

func TestExtractTableID(t *testing.T) {
	tests := []struct {
		name  string
		event events.Event
		want  string
	}{
		{"struct", events.PlayerFolded{TableID: "table123"}, "table123"},
		{"pointer", &events.PlayerFolded{TableID: "tablePointer"}, "tablePointer"},
		{"no field", noTableID{OtherField: "noID"}, ""},
		{"pointer without field", &noTableID{OtherField: "stillNoID"}, ""},
		{"field of the wrong type", numericTableID{TableID: 7}, ""},
		{"nil pointer", (*events.PlayerFolded)(nil), ""},
		{"lobby event", events.PlayerEnteredLobby{PlayerID: "p1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, events.ExtractTableID(tt.event))
		})
	}
}

func TestExtractHandID(t *testing.T) {
	assert.Equal(t, "h1", events.ExtractHandID(events.HandEnded{TableID: "t", HandID: "h1"}))
	assert.Equal(t, "", events.ExtractHandID(events.TableOpened{TableID: "t"}))
}

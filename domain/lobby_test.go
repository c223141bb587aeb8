package domain

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobby_EnterOpenLeave(t *testing.T) {
	lobby := NewLobby()
	var names []string
	lobby.AddEventHandler(func(e events.Event) { names = append(names, e.Name()) })

	require.NoError(t, lobby.EntersLobby("p1"))
	assert.True(t, lobby.IsInLobby("p1"))
	assert.ErrorIs(t, lobby.EntersLobby("p1"), ErrAlreadyInLobby)

	table, err := lobby.OpenTable("p1", &fakeBank{balance: 500}, WithLogger(log.New(io.Discard)))
	require.NoError(t, err)

	_, err = lobby.OpenTable("p1", &fakeBank{})
	assert.ErrorIs(t, err, ErrAlreadySeated)

	got, err := lobby.TableFor("p1")
	require.NoError(t, err)
	assert.Same(t, table, got)

	got, err = lobby.GetTable(table.ID)
	require.NoError(t, err)
	assert.Same(t, table, got)
	assert.Equal(t, 1, lobby.TableCount())

	require.NoError(t, lobby.LeavesLobby("p1"))
	assert.False(t, lobby.IsInLobby("p1"))
	assert.Equal(t, 0, lobby.TableCount())

	_, err = lobby.GetTable(table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, lobby.LeavesLobby("p1"), ErrPlayerNotInLobby)

	assert.Equal(t, []string{"PLAYER_ENTERED_LOBBY", "TABLE_OPENED", "TABLE_CLOSED", "PLAYER_LEFT_LOBBY"}, names)
}

func TestLobby_OpenTableRequiresPlayer(t *testing.T) {
	_, err := NewLobby().OpenTable("ghost", &fakeBank{})
	assert.ErrorIs(t, err, ErrPlayerNotInLobby)

	_, err = NewLobby().TableFor("ghost")
	assert.ErrorIs(t, err, ErrPlayerNotInLobby)
}

func TestLobby_ConcurrentPlayers(t *testing.T) {
	lobby := NewLobby()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if err := lobby.EntersLobby(id); err != nil {
				t.Error(err)
				return
			}
			if _, err := lobby.OpenTable(id, &fakeBank{}, WithLogger(log.New(io.Discard))); err != nil {
				t.Error(err)
			}
		}(string(rune('a' + i)))
	}
	wg.Wait()

	assert.Equal(t, 20, lobby.TableCount())
}

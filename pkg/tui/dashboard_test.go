package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/MBatuhanOzer/filter/pkg/engine"
)

type fakeSource struct {
	stats engine.Stats
}

func (f fakeSource) Stats() engine.Stats { return f.stats }

func TestViewRendersOccupancy(t *testing.T) {
	m := NewModel(fakeSource{stats: engine.Stats{Workers: 4, ArenaSize: 64, ArenaFree: 60, QueueBusy: true}}).(model)
	m.stats = engine.Stats{Workers: 4, ArenaSize: 64, ArenaFree: 60, QueueBusy: true}

	view := m.View()
	assert.Contains(t, view, "workers:")
	assert.Contains(t, view, "4")
	assert.Contains(t, view, "busy")
}

func TestQuitKeyStopsProgram(t *testing.T) {
	m := NewModel(fakeSource{}).(model)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.NotNil(t, cmd)
}

func TestTickUpdatesStats(t *testing.T) {
	src := fakeSource{stats: engine.Stats{Workers: 2, ArenaSize: 8, ArenaFree: 8}}
	m := NewModel(src).(model)
	updated, cmd := m.Update(tickMsg{})
	next := updated.(model)

	assert.Equal(t, 2, next.stats.Workers)
	assert.NotNil(t, cmd)
	assert.True(t, strings.Contains(next.View(), "idle"))
}

package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"mocheck/internal/driver"
)

func TestProgressModelTracksOutcomes(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("checking", "/lib", events).(*progressModel)

	m.Update(eventMsg{Kind: driver.EventStarted, Path: "/lib/a.mo"})
	m.Update(eventMsg{Kind: driver.EventFinished, Path: "/lib/a.mo", Outcome: driver.Outcome{Path: "/lib/a.mo"}})
	m.Update(eventMsg{Kind: driver.EventStarted, Path: "/lib/sub/b.mo"})
	m.Update(eventMsg{Kind: driver.EventFinished, Path: "/lib/sub/b.mo", Outcome: driver.Outcome{Path: "/lib/sub/b.mo", Errors: 2}})

	if m.processed != 2 || m.failed != 1 || m.errors != 2 {
		t.Fatalf("unexpected tally: processed=%d failed=%d errors=%d", m.processed, m.failed, m.errors)
	}
	view := m.View()
	for _, want := range []string{"checking (2 checked, 1 failed)", "a.mo", "sub/b.mo", "2 errors"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "/lib/") {
		t.Errorf("root prefix should be trimmed:\n%s", view)
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	m := NewProgressModel("checking", "", nil).(*progressModel)
	_, cmd := m.Update(doneMsg{})
	if !m.done {
		t.Fatal("model should be done")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
	if !strings.Contains(m.View(), "done:") {
		t.Errorf("done header missing:\n%s", m.View())
	}
}

func TestProgressModelKeepsRecentRows(t *testing.T) {
	m := NewProgressModel("checking", "", nil).(*progressModel)
	m.rows = 2
	for _, p := range []string{"a.mo", "b.mo", "c.mo"} {
		m.applyEvent(driver.Event{Kind: driver.EventFinished, Path: p})
	}
	view := m.View()
	if strings.Contains(view, "a.mo") || !strings.Contains(view, "c.mo") {
		t.Errorf("expected only the two most recent rows:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := truncate("averyveryverylongname.mo", 10); got != "averyve..." {
		t.Errorf("got %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("got %q", got)
	}
	// wide runes still fit the column budget, tail included
	got := truncate("日本語のファイル名.mo", 10)
	if w := runewidth.StringWidth(got); w > 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("got %q (width %d)", got, w)
	}
}

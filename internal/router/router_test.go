package router

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mindcheck/internal/screen"
)

type stubScreen struct {
	title string
	inits int
	seen  []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

// titles lists the stack bottom to top.
func titles(r *Router) string {
	parts := make([]string, len(r.stack))
	for i, s := range r.stack {
		parts[i] = s.Title()
	}
	return strings.Join(parts, ">")
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want string
	}{
		{"push", []tea.Msg{PushScreenMsg{&stubScreen{title: "mood"}}}, "welcome>mood"},
		{"pop", []tea.Msg{PushScreenMsg{&stubScreen{title: "mood"}}, PopScreenMsg{}}, "welcome"},
		{"pop keeps root", []tea.Msg{PopScreenMsg{}, PopScreenMsg{}}, "welcome"},
		{"replace root", []tea.Msg{ReplaceScreenMsg{&stubScreen{title: "mood"}}}, "mood"},
		{"replace top", []tea.Msg{
			PushScreenMsg{&stubScreen{title: "gad7"}},
			ReplaceScreenMsg{&stubScreen{title: "phq9"}},
		}, "welcome>phq9"},
		{"reset", []tea.Msg{
			PushScreenMsg{&stubScreen{title: "gad7"}},
			PushScreenMsg{&stubScreen{title: "phq9"}},
			PushScreenMsg{&stubScreen{title: "results"}},
			ResetScreenMsg{&stubScreen{title: "mood"}},
		}, "mood"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stubScreen{title: "welcome"})
			for _, msg := range tt.msgs {
				r.Update(msg)
			}
			if got := titles(r); got != tt.want {
				t.Fatalf("stack = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNavigationRunsInit(t *testing.T) {
	r := New(&stubScreen{title: "welcome"})
	pushed := &stubScreen{title: "mood"}
	replaced := &stubScreen{title: "gad7"}
	reset := &stubScreen{title: "fresh"}

	r.Update(PushScreenMsg{pushed})
	r.Update(ReplaceScreenMsg{replaced})
	r.Update(ResetScreenMsg{reset})

	for _, s := range []*stubScreen{pushed, replaced, reset} {
		if s.inits != 1 {
			t.Errorf("%s: Init ran %d times, want 1", s.title, s.inits)
		}
	}
}

func TestOtherMessagesGoToActive(t *testing.T) {
	root := &stubScreen{title: "welcome"}
	top := &stubScreen{title: "mood"}
	r := New(root)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})

	if len(top.seen) != 1 || len(root.seen) != 0 {
		t.Fatalf("top saw %d, root saw %d", len(top.seen), len(root.seen))
	}
	if r.View(80, 24) != "mood" {
		t.Fatalf("view = %q", r.View(80, 24))
	}
}

func TestEmptyStack(t *testing.T) {
	r := &Router{}
	if r.Active() != nil || r.View(80, 24) != "" || r.Update(PopScreenMsg{}) != nil {
		t.Fatal("empty router should be inert")
	}
	r.Replace(&stubScreen{title: "only"})
	if r.Depth() != 1 || r.Active().Title() != "only" {
		t.Fatalf("replace on empty stack should push, got %q", titles(r))
	}
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/starford/sikabut/internal/history"
	"github.com/starford/sikabut/internal/models"
	"github.com/starford/sikabut/internal/portal"
)

type fakeFetcher struct {
	calls   []string
	records []models.FileRecord
	err     error
}

func (f *fakeFetcher) Lookup(_ context.Context, fileNumber string) ([]models.FileRecord, error) {
	f.calls = append(f.calls, fileNumber)
	return f.records, f.err
}

func newTestModel(f *fakeFetcher, opts ...portal.Option) Model {
	s := portal.NewSession(f, opts...)
	return New(context.Background(), s, f)
}

// runCmd executes cmd, flattening batches, and returns the produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findResult(msgs []tea.Msg) (lookupResultMsg, bool) {
	for _, msg := range msgs {
		if r, ok := msg.(lookupResultMsg); ok {
			return r, true
		}
	}
	return lookupResultMsg{}, false
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func TestEnter_SearchesAndRendersCard(t *testing.T) {
	f := &fakeFetcher{records: []models.FileRecord{{
		FileNumber:       "123",
		ApplicantName:    "Siti",
		FileStatus:       "Proses",
		MissingDocuments: models.NewMissingDocuments("KTP, KK"),
	}}}
	m := newTestModel(f)
	m.input.SetValue("  123 ")

	m, cmd := press(m, tea.KeyEnter)
	if st := m.session.Snapshot().State; st != portal.Searching {
		t.Fatalf("state after enter = %v", st)
	}
	if !strings.Contains(m.View(), m.brand.Copy.Searching) {
		t.Error("view does not show the searching indicator")
	}

	res, ok := findResult(runCmd(cmd))
	if !ok {
		t.Fatal("enter did not schedule a lookup")
	}
	next, _ := m.Update(res)
	m = next.(Model)

	if st := m.session.Snapshot().State; st != portal.Found {
		t.Fatalf("state = %v", st)
	}
	if len(f.calls) != 1 || f.calls[0] != "123" {
		t.Errorf("calls = %q", f.calls)
	}
	view := m.View()
	for _, want := range []string{"Siti", "Nama Pemohon", "Daftar kekurangan berkas:", "1. KTP", "2. KK"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEnter_EmptyInputWarns(t *testing.T) {
	f := &fakeFetcher{}
	m := newTestModel(f)

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("empty input scheduled a command")
	}
	if st := m.session.Snapshot().State; st != portal.Warning {
		t.Errorf("state = %v", st)
	}
	if !strings.Contains(m.View(), "Harap masukkan nomor berkas") {
		t.Error("warning not rendered")
	}
	if len(f.calls) != 0 {
		t.Error("fetcher called")
	}
}

func TestEnter_IgnoredWhileSearching(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	m.input.SetValue("1")

	m, _ = press(m, tea.KeyEnter)
	_, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Error("second enter scheduled another lookup")
	}
}

func TestEsc_ResetsAndDropsInFlight(t *testing.T) {
	f := &fakeFetcher{records: []models.FileRecord{{FileNumber: "1"}}}
	m := newTestModel(f)
	m.input.SetValue("1")

	m, cmd := press(m, tea.KeyEnter)
	res, _ := findResult(runCmd(cmd))

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "" {
		t.Errorf("input = %q after reset", m.input.Value())
	}
	if !m.input.Focused() {
		t.Error("input lost focus after reset")
	}

	next, _ := m.Update(res)
	m = next.(Model)
	if st := m.session.Snapshot().State; st != portal.Idle {
		t.Errorf("late response changed state to %v", st)
	}
}

func TestLookupError_ShowsGenericMessage(t *testing.T) {
	m := newTestModel(&fakeFetcher{err: errors.New("upstream status 500: stack trace")})
	m.input.SetValue("9")

	m, cmd := press(m, tea.KeyEnter)
	res, _ := findResult(runCmd(cmd))
	next, _ := m.Update(res)
	view := next.(Model).View()

	if !strings.Contains(view, "Gagal mengambil data") {
		t.Errorf("generic error not shown:\n%s", view)
	}
	if strings.Contains(view, "stack trace") {
		t.Error("raw error leaked into the view")
	}
}

func TestCtrlC_Quits(t *testing.T) {
	_, cmd := press(newTestModel(&fakeFetcher{}), tea.KeyCtrlC)
	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %v", msgs)
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Errorf("msg = %T, want tea.QuitMsg", msgs[0])
	}
}

func TestF1_TogglesFAQ(t *testing.T) {
	m := newTestModel(&fakeFetcher{})
	if strings.Contains(m.View(), "Pertanyaan Umum") {
		t.Fatal("FAQ shown before toggling")
	}
	m, _ = press(m, tea.KeyF1)
	if !m.showFAQ || !strings.Contains(m.View(), "Pertanyaan Umum") {
		t.Error("FAQ not shown")
	}
	m, _ = press(m, tea.KeyF1)
	if m.showFAQ {
		t.Error("FAQ not hidden")
	}
}

func TestUpDown_RecallsRecentSearches(t *testing.T) {
	h := history.New(history.NewMemory())
	_, _ = h.Push(context.Background(), "old")
	_, _ = h.Push(context.Background(), "new")

	m := newTestModel(&fakeFetcher{}, portal.WithHistory(h))
	if !strings.Contains(m.View(), "new, old") {
		t.Errorf("recent searches not shown:\n%s", m.View())
	}

	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "new" {
		t.Errorf("first up = %q", m.input.Value())
	}
	m, _ = press(m, tea.KeyUp)
	m, _ = press(m, tea.KeyUp)
	if m.input.Value() != "old" {
		t.Errorf("up past the end = %q", m.input.Value())
	}
	m, _ = press(m, tea.KeyDown)
	if m.input.Value() != "new" {
		t.Errorf("down = %q", m.input.Value())
	}
}

func TestWindowSize(t *testing.T) {
	next, _ := newTestModel(&fakeFetcher{}).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if w := next.(Model).width; w != 120 {
		t.Errorf("width = %d", w)
	}
	next, _ = next.Update(tea.WindowSizeMsg{Width: 0})
	if w := next.(Model).width; w != 120 {
		t.Errorf("zero width overwrote size: %d", w)
	}
}

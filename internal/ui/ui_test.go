package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/martium/fsh/internal/models"
	"github.com/martium/fsh/internal/shared"
	th "github.com/martium/fsh/internal/testing"
	"github.com/shopspring/decimal"
)

func seededStore() *th.MemoryStore {
	return th.NewMemoryStore(
		models.ServiceRecord{CustomerNames: "Jonas Jonaitis", DepartedInfo: "Petras K."},
		models.ServiceRecord{CustomerNames: "Rūta", DepartedInfo: "Ona M."},
		models.ServiceRecord{CustomerNames: "Laura", DepartedInfo: "Petras L.", ServiceMusiciansCount: 2},
	)
}

// longRecord holds text the single-line inputs cannot show as stored: newlines, tabs and more than 1000 characters.
func longRecord() models.ServiceRecord {
	return models.ServiceRecord{
		OrderDate:                 "2024-03-01",
		CustomerNames:             "Jonas Jonaitis",
		CustomerPhoneNumbers:      "861234567",
		CustomerAddresses:         "Laisvės al. 1\nKaunas\tLT-44001",
		ServicePlaces:             "Kauno\tkapinės",
		ServiceMusiciansCount:     3,
		ServiceMusicProgram:       "Ave Maria\n\tLacrimosa\nRequiem",
		DepartedInfo:              "Petras Jonaitis\n1940-2024",
		ServiceDiscountPercentage: decimal.RequireFromString("12.50"),
		ServicePaymentAmount:      decimal.RequireFromString("300"),
		ServiceDescription:        "Line one\nLine two\t" + strings.Repeat("x", 1200),
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// drive sends msg and keeps feeding back messages from returned commands while they are [Msg] values.
func drive(m *Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	run(m, cmd)
}

func run(m *Model, cmd tea.Cmd) {
	for cmd != nil {
		next, ok := cmd().(Msg)
		if !ok {
			return
		}
		_, cmd = m.Update(next)
	}
}

func newTestModel(t *testing.T, store *th.MemoryStore) *Model {
	t.Helper()
	m := NewModel(context.Background(), store, "")
	run(m, m.Init())
	return m
}

func fieldIndex(t *testing.T, key string) int {
	t.Helper()
	for i, f := range models.RecordFields {
		if f.Key == key {
			return i
		}
	}
	t.Fatalf("unknown field %q", key)
	return -1
}

func TestListView(t *testing.T) {
	t.Run("Init loads services newest first", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		if len(m.summaries) != 3 {
			t.Fatalf("expected 3 summaries, got %d", len(m.summaries))
		}
		if m.summaries[0].OrderNumber != 3 || m.summaries[2].OrderNumber != 1 {
			t.Errorf("expected newest first, got %+v", m.summaries)
		}
		if !strings.Contains(m.View(), "Laura") {
			t.Errorf("expected list to render newest customer, got:\n%s", m.View())
		}
	})

	t.Run("empty history reason", func(t *testing.T) {
		m := newTestModel(t, th.NewMemoryStore())

		if !strings.Contains(m.View(), "Service history is empty") {
			t.Errorf("expected empty history reason, got:\n%s", m.View())
		}
	})

	t.Run("load error", func(t *testing.T) {
		store := seededStore()
		store.Err = shared.ErrStoreUnavailable
		m := newTestModel(t, store)

		if !errors.Is(m.err, shared.ErrStoreUnavailable) {
			t.Errorf("expected ErrStoreUnavailable, got %v", m.err)
		}
		if !strings.Contains(m.View(), "Error:") {
			t.Errorf("expected error view, got:\n%s", m.View())
		}
	})

	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t, seededStore())
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("window size", func(t *testing.T) {
		m := newTestModel(t, seededStore())
		m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
		if m.width != 100 || m.height != 40 {
			t.Errorf("unexpected size %dx%d", m.width, m.height)
		}
	})

	t.Run("edit and copy need a selection", func(t *testing.T) {
		m := newTestModel(t, th.NewMemoryStore())
		for _, k := range []string{"e", "c", "enter"} {
			if _, cmd := m.Update(keyPress(k)); cmd != nil {
				t.Errorf("expected %q to do nothing on an empty list", k)
			}
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("search filters the list", func(t *testing.T) {
		store := seededStore()
		m := newTestModel(t, store)

		m.Update(keyPress("/"))
		if !m.searching {
			t.Fatal("expected search input to be active")
		}
		m.Update(keyPress("petras"))
		drive(m, keyPress("enter"))

		if m.searching {
			t.Error("expected search input to close")
		}
		if m.phrase != "petras" {
			t.Errorf("expected phrase %q, got %q", "petras", m.phrase)
		}
		if len(m.summaries) != 2 || m.summaries[0].OrderNumber != 3 || m.summaries[1].OrderNumber != 1 {
			t.Errorf("unexpected search result %+v", m.summaries)
		}
		if store.Calls[len(store.Calls)-1] != "List:petras" {
			t.Errorf("expected store search, got calls %v", store.Calls)
		}
	})

	t.Run("no match reason", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		m.Update(keyPress("/"))
		m.search.SetValue("Jurgis")
		drive(m, keyPress("enter"))

		if len(m.summaries) != 0 {
			t.Fatalf("expected no summaries, got %d", len(m.summaries))
		}
		if !strings.Contains(m.View(), "Search phrase 'Jurgis' matched no services") {
			t.Errorf("expected no-match reason, got:\n%s", m.View())
		}
	})

	t.Run("blank phrase is ignored", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		m.Update(keyPress("/"))
		m.search.SetValue("   ")
		if _, cmd := m.Update(keyPress("enter")); cmd != nil {
			t.Error("expected blank search to do nothing")
		}
		if !m.searching {
			t.Error("expected search input to stay open")
		}
	})

	t.Run("esc cancels active search", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		m.Update(keyPress("/"))
		m.search.SetValue("Ona")
		drive(m, keyPress("enter"))
		if len(m.summaries) != 1 {
			t.Fatalf("expected 1 match, got %d", len(m.summaries))
		}

		drive(m, keyPress("esc"))
		if m.phrase != "" || len(m.summaries) != 3 {
			t.Errorf("expected full list after cancel, phrase=%q summaries=%d", m.phrase, len(m.summaries))
		}
	})

	t.Run("esc while typing restores previous list", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		m.Update(keyPress("/"))
		m.search.SetValue("Ona")
		drive(m, keyPress("esc"))

		if m.searching || m.phrase != "" || len(m.summaries) != 3 {
			t.Errorf("unexpected state searching=%v phrase=%q summaries=%d", m.searching, m.phrase, len(m.summaries))
		}
	})
}

func TestDetailView(t *testing.T) {
	m := newTestModel(t, seededStore())

	drive(m, keyPress("enter"))
	if m.view != DetailView {
		t.Fatalf("expected detail view, got %v", m.view)
	}
	if m.selected == nil || m.selected.OrderNumber != 3 {
		t.Fatalf("expected order 3 selected, got %+v", m.selected)
	}
	if view := m.View(); !strings.Contains(view, "Service #3") || !strings.Contains(view, "Petras L.") {
		t.Errorf("unexpected detail view:\n%s", view)
	}

	drive(m, keyPress("esc"))
	if m.view != ListView || m.selected != nil {
		t.Errorf("expected list view after esc, got %v", m.view)
	}
}

func TestForm(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		store := seededStore()
		m := newTestModel(t, store)

		drive(m, keyPress("n"))
		if m.view != FormView || m.form == nil {
			t.Fatalf("expected form view, got %v", m.view)
		}
		if m.form.op != models.OperationCreate || m.form.next != 4 {
			t.Errorf("unexpected form op=%s next=%d", m.form.op, m.form.next)
		}
		if !strings.Contains(m.View(), "New service #4") {
			t.Errorf("expected advisory order number in title, got:\n%s", m.View())
		}

		m.form.inputs[fieldIndex(t, "customer-names")].SetValue("Jonas Jonaitis")
		m.form.inputs[fieldIndex(t, "payment-amount")].SetValue("120,50")
		drive(m, keyPress("ctrl+s"))

		if m.view != ListView || m.form != nil {
			t.Fatalf("expected form to close, view=%v", m.view)
		}
		if store.Len() != 4 || len(m.summaries) != 4 {
			t.Errorf("expected 4 services, store=%d list=%d", store.Len(), len(m.summaries))
		}
		if m.status != "Saved service #4" {
			t.Errorf("unexpected status %q", m.status)
		}

		created, err := store.Get(context.Background(), 4)
		if err != nil {
			t.Fatalf("failed to get created record: %v", err)
		}
		if created.CustomerNames != "Jonas Jonaitis" || created.ServicePaymentAmount.String() != "120.5" {
			t.Errorf("unexpected created record %+v", created)
		}
	})

	t.Run("edit", func(t *testing.T) {
		store := seededStore()
		m := newTestModel(t, store)

		drive(m, keyPress("e"))
		if m.form == nil || m.form.op != models.OperationEdit || m.form.source != 3 {
			t.Fatalf("expected edit form for order 3, got %+v", m.form)
		}
		if got := m.form.inputs[fieldIndex(t, "customer-names")].Value(); got != "Laura" {
			t.Errorf("expected prefilled customer names, got %q", got)
		}
		if got := m.form.inputs[fieldIndex(t, "musicians-count")].Value(); got != "2" {
			t.Errorf("expected prefilled musicians count, got %q", got)
		}
		if !strings.Contains(m.View(), "Edit service #3") {
			t.Errorf("unexpected form title:\n%s", m.View())
		}

		m.form.inputs[fieldIndex(t, "customer-names")].SetValue("Laura Kim")
		drive(m, keyPress("ctrl+s"))

		if store.Len() != 3 {
			t.Errorf("edit must not create records, got %d", store.Len())
		}
		updated, _ := store.Get(context.Background(), 3)
		if updated.CustomerNames != "Laura Kim" || updated.DepartedInfo != "Petras L." {
			t.Errorf("unexpected updated record %+v", updated)
		}
	})

	t.Run("copy", func(t *testing.T) {
		store := seededStore()
		m := newTestModel(t, store)

		drive(m, keyPress("c"))
		if m.form == nil || m.form.op != models.OperationCopy {
			t.Fatalf("expected copy form, got %+v", m.form)
		}
		if !strings.Contains(m.View(), "Copy service #3 as new service #4") {
			t.Errorf("unexpected form title:\n%s", m.View())
		}

		drive(m, keyPress("ctrl+s"))

		if store.Len() != 4 {
			t.Fatalf("expected copy to create a record, got %d", store.Len())
		}
		copied, _ := store.Get(context.Background(), 4)
		original, _ := store.Get(context.Background(), 3)
		if copied.DepartedInfo != original.DepartedInfo || copied.ServiceMusiciansCount != 2 {
			t.Errorf("copy differs from original: %+v", copied)
		}
	})

	t.Run("edit keeps untouched fields", func(t *testing.T) {
		store := th.NewMemoryStore(longRecord())
		original, _ := store.Get(context.Background(), 1)
		m := newTestModel(t, store)

		drive(m, keyPress("e"))
		m.form.inputs[fieldIndex(t, "customer-names")].SetValue("Laura Kim")
		drive(m, keyPress("ctrl+s"))

		if m.view != ListView {
			t.Fatalf("expected form to close, view=%v err=%v", m.view, m.form.err)
		}
		want := *original
		want.CustomerNames = "Laura Kim"
		saved, _ := store.Get(context.Background(), 1)
		if !saved.Equal(&want) {
			t.Errorf("untouched fields changed:\nwant %+v\ngot  %+v", want, *saved)
		}
		if saved.ServiceDiscountPercentage.String() != original.ServiceDiscountPercentage.String() {
			t.Errorf("expected discount %s kept, got %s", original.ServiceDiscountPercentage, saved.ServiceDiscountPercentage)
		}
	})

	t.Run("copy keeps every field", func(t *testing.T) {
		store := th.NewMemoryStore(longRecord())
		original, _ := store.Get(context.Background(), 1)
		m := newTestModel(t, store)

		drive(m, keyPress("c"))
		drive(m, keyPress("ctrl+s"))

		if store.Len() != 2 {
			t.Fatalf("expected copy to create a record, got %d", store.Len())
		}
		want := original.Clone()
		want.OrderNumber = 2
		copied, _ := store.Get(context.Background(), 2)
		if !copied.Equal(want) {
			t.Errorf("copy differs from original:\nwant %+v\ngot  %+v", *want, *copied)
		}
	})

	t.Run("long multi-line text is saved as typed", func(t *testing.T) {
		store := th.NewMemoryStore(longRecord())
		m := newTestModel(t, store)
		description := "Pirma eilutė\nAntra eilutė\n" + strings.Repeat("y", 1500)

		drive(m, keyPress("e"))
		m.form.inputs[fieldIndex(t, "service-description")].SetValue(description)
		drive(m, keyPress("ctrl+s"))

		saved, _ := store.Get(context.Background(), 1)
		if saved.ServiceDescription != description {
			t.Errorf("description changed on save: got %d chars %q...", len(saved.ServiceDescription), saved.ServiceDescription[:min(40, len(saved.ServiceDescription))])
		}
	})

	t.Run("arrow keys stay inside multi-line fields", func(t *testing.T) {
		m := newTestModel(t, th.NewMemoryStore(longRecord()))

		drive(m, keyPress("e"))
		i := fieldIndex(t, "service-description")
		m.form.setFocus(i)
		drive(m, tea.KeyMsg{Type: tea.KeyUp})
		if m.form.focus != i {
			t.Errorf("expected focus to stay on the description, got field %d", m.form.focus)
		}
		drive(m, keyPress("tab"))
		if m.form.focus != (i+1)%len(models.RecordFields) {
			t.Errorf("expected tab to move focus, got field %d", m.form.focus)
		}
	})

	t.Run("edit from detail view", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		drive(m, keyPress("enter"))
		drive(m, keyPress("e"))
		if m.view != FormView || m.form.source != 3 {
			t.Errorf("expected edit form for order 3, view=%v", m.view)
		}
	})

	t.Run("invalid input keeps form open", func(t *testing.T) {
		store := seededStore()
		m := newTestModel(t, store)

		drive(m, keyPress("n"))
		m.form.inputs[fieldIndex(t, "musicians-count")].SetValue("many")
		drive(m, keyPress("ctrl+s"))

		if m.view != FormView {
			t.Fatalf("expected form to stay open, got %v", m.view)
		}
		if !errors.Is(m.form.err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", m.form.err)
		}
		if store.Len() != 3 {
			t.Errorf("expected no record created, got %d", store.Len())
		}
	})

	t.Run("write failure keeps form open", func(t *testing.T) {
		store := seededStore()
		failed := false
		store.CreateResult = &failed
		m := newTestModel(t, store)

		drive(m, keyPress("n"))
		drive(m, keyPress("ctrl+s"))

		if m.view != FormView {
			t.Fatalf("expected form to stay open, got %v", m.view)
		}
		if !errors.Is(m.form.err, shared.ErrWriteFailed) {
			t.Errorf("expected ErrWriteFailed, got %v", m.form.err)
		}
	})

	t.Run("cancel refreshes list and resets search", func(t *testing.T) {
		m := newTestModel(t, seededStore())

		m.Update(keyPress("/"))
		m.search.SetValue("Ona")
		drive(m, keyPress("enter"))

		drive(m, keyPress("n"))
		drive(m, keyPress("esc"))

		if m.view != ListView || m.phrase != "" || len(m.summaries) != 3 {
			t.Errorf("unexpected state view=%v phrase=%q summaries=%d", m.view, m.phrase, len(m.summaries))
		}
	})

	t.Run("focus navigation wraps", func(t *testing.T) {
		m := newTestModel(t, seededStore())
		drive(m, keyPress("n"))

		m.Update(keyPress("tab"))
		if m.form.focus != 1 {
			t.Errorf("expected focus 1, got %d", m.form.focus)
		}
		m.Update(keyPress("shift+tab"))
		m.Update(keyPress("shift+tab"))
		if want := len(models.RecordFields) - 1; m.form.focus != want {
			t.Errorf("expected focus %d, got %d", want, m.form.focus)
		}
	})
}

package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/models"
	"github.com/jjalhub/jjal-cli/internal/overlay"
)

type stubSource struct {
	deleted []string
}

func (s *stubSource) ListMemes(ctx context.Context) ([]models.Meme, int, error) {
	return nil, 0, nil
}

func (s *stubSource) LookupNicknames(ctx context.Context, ids []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (s *stubSource) DeleteMeme(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSource) DeleteImage(ctx context.Context, path string) error { return nil }

func (s *stubSource) StoragePath(imageURL string) string { return "" }

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newGalleryForTest(t *testing.T) (model, *overlay.MemStore) {
	t.Helper()

	store := overlay.NewMemStore()
	fallback := []models.Meme{{
		ID:       "jjal-001",
		ImageURL: "https://static.jjalhub.net/catalog/mudo-pms-angry.jpg",
		Title:    "호통 명수옹",
		Quote:    "야! 안 되는 건 안 되는 거야!",
		Category: "박명수",
		Tags:     []models.Emotion{"화남"},
	}}
	rec := catalog.New(&stubSource{}, store, nil, catalog.Options{Fallback: fallback})
	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	m := newModel(rec, catalog.Identity{IsAdmin: true})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	next, _ = next.Update(loadedMsg{memes: memes})
	return next.(model), store
}

func TestGalleryDeleteNeedsConfirmation(t *testing.T) {
	m, store := newGalleryForTest(t)

	next, _ := m.Update(keyPress('d'))
	m = next.(model)

	if store.Read(overlay.SlotDeletedFallback).Contains("jjal-001") {
		t.Fatal("single keypress already deleted the record")
	}
	if got := len(m.list.Items()); got != 1 {
		t.Errorf("len(items) after arming = %d, want 1", got)
	}
	if !strings.Contains(m.status, "press y to confirm") {
		t.Errorf("status = %q, want a confirmation prompt", m.status)
	}

	next, _ = m.Update(keyPress('y'))
	m = next.(model)

	if !store.Read(overlay.SlotDeletedFallback).Contains("jjal-001") {
		t.Error("confirmed delete did not hide the record")
	}
	if got := len(m.list.Items()); got != 0 {
		t.Errorf("len(items) after confirm = %d, want 0", got)
	}
}

func TestGalleryDeleteCancelledByAnyOtherKey(t *testing.T) {
	m, store := newGalleryForTest(t)

	next, _ := m.Update(keyPress('d'))
	m = next.(model)
	next, _ = m.Update(keyPress('n'))
	m = next.(model)

	if store.Read(overlay.SlotDeletedFallback).Contains("jjal-001") {
		t.Error("cancelled delete still hid the record")
	}
	if got := len(m.list.Items()); got != 1 {
		t.Errorf("len(items) after cancel = %d, want 1", got)
	}
	if m.pendingDelete != "" {
		t.Errorf("pendingDelete = %q, want cleared", m.pendingDelete)
	}

	// A lone "y" with nothing pending must not delete either.
	next, _ = m.Update(keyPress('y'))
	m = next.(model)
	if store.Read(overlay.SlotDeletedFallback).Contains("jjal-001") {
		t.Error("stray confirm key deleted the record")
	}
}

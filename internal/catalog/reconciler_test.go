package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jjalhub/jjal-cli/internal/models"
	"github.com/jjalhub/jjal-cli/internal/overlay"
)

const (
	serverID      = "3b2e1a9c-5d4f-4e6a-8b7c-9d0e1f2a3b4c"
	otherServerID = "7f8a9b0c-1d2e-4f3a-9b8c-7d6e5f4a3b2c"
	ownerID       = "11111111-2222-4333-8444-555555555555"
)

// fakeSource is a scripted RecordSource.
type fakeSource struct {
	memes     []models.Meme
	dropped   int
	listErr   error
	nicknames map[string]string

	deletedMemes  []string
	deletedImages []string
	deleteMemeErr error
}

func (f *fakeSource) ListMemes(ctx context.Context) ([]models.Meme, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	out := make([]models.Meme, len(f.memes))
	copy(out, f.memes)
	return out, f.dropped, nil
}

func (f *fakeSource) LookupNicknames(ctx context.Context, ids []string) (map[string]string, error) {
	if f.nicknames == nil {
		return map[string]string{}, nil
	}
	return f.nicknames, nil
}

func (f *fakeSource) DeleteMeme(ctx context.Context, id string) error {
	if f.deleteMemeErr != nil {
		return f.deleteMemeErr
	}
	f.deletedMemes = append(f.deletedMemes, id)
	kept := f.memes[:0]
	for _, m := range f.memes {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	f.memes = kept
	return nil
}

func (f *fakeSource) DeleteImage(ctx context.Context, path string) error {
	f.deletedImages = append(f.deletedImages, path)
	return nil
}

func (f *fakeSource) StoragePath(imageURL string) string {
	if !strings.Contains(imageURL, "/meme-images/") {
		return ""
	}
	parts := strings.Split(imageURL, "/")
	return strings.Join(parts[len(parts)-2:], "/")
}

// collectNotifier records every notice for assertions.
type collectNotifier struct {
	notices []Notice
}

func (c *collectNotifier) Notify(n Notice) { c.notices = append(c.notices, n) }

func (c *collectNotifier) warnings() []Notice {
	var out []Notice
	for _, n := range c.notices {
		if n.Kind == NoticeWarning {
			out = append(out, n)
		}
	}
	return out
}

func serverMeme(id string) models.Meme {
	return models.Meme{
		ID:       id,
		ImageURL: "https://jjal.example.com/storage/v1/object/public/meme-images/" + ownerID + "/1700000000000.jpg",
		Title:    "무야호",
		Quote:    "무야호~ 그만큼 신나시는 거지",
		Category: "유재석",
		Tags:     []models.Emotion{"웃김", "기쁨"},
		Likes:    3,
		OwnerID:  ownerID,
	}
}

func fallbackMemes() []models.Meme {
	return []models.Meme{
		{ID: "jjal-001", Title: "형이 왜 거기서 나와", Quote: "아니 형이 왜 거기서 나와", Category: "박명수", Tags: []models.Emotion{"놀람"}},
		{ID: "jjal-002", Title: "해골 물", Quote: "사람 일은 모르는 거야", Category: "정준하", Tags: []models.Emotion{"웃김", "허탈"}},
		{ID: "jjal-003", Title: "쩔어", Quote: "아 진짜 쩔어", Category: "하하", Tags: []models.Emotion{"감동"}},
	}
}

func newTestReconciler(t *testing.T, source *fakeSource, opts Options) (*Reconciler, *overlay.MemStore, *collectNotifier) {
	t.Helper()
	if opts.Fallback == nil {
		opts.Fallback = fallbackMemes()
	}
	store := overlay.NewMemStore()
	notifier := &collectNotifier{}
	return New(source, store, notifier, opts), store, notifier
}

func TestLoadMergesRemoteAndFallback(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, _, notifier := newTestReconciler(t, source, Options{})

	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := len(memes), 4; got != want {
		t.Fatalf("len(memes) = %d, want %d", got, want)
	}
	if memes[0].ID != serverID {
		t.Errorf("memes[0].ID = %q, want remote record first", memes[0].ID)
	}
	if len(notifier.warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", notifier.warnings())
	}
}

func TestLoadRemoteWinsIDCollision(t *testing.T) {
	shadow := serverMeme(serverID)
	shadow.ID = "jjal-001"
	shadow.Title = "리마스터판"
	source := &fakeSource{memes: []models.Meme{shadow}}
	rec, _, _ := newTestReconciler(t, source, Options{})

	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	count := 0
	for _, m := range memes {
		if m.ID == "jjal-001" {
			count++
			if m.Title != "리마스터판" {
				t.Errorf("colliding id kept fallback title %q, want remote", m.Title)
			}
		}
	}
	if count != 1 {
		t.Errorf("id jjal-001 appears %d times, want 1", count)
	}
}

func TestLoadNoDuplicateIDs(t *testing.T) {
	dup := serverMeme(serverID)
	source := &fakeSource{memes: []models.Meme{dup, dup}}
	rec, _, _ := newTestReconciler(t, source, Options{})

	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	seen := make(map[string]bool)
	for _, m := range memes {
		if seen[m.ID] {
			t.Errorf("duplicate id %q in collection", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestLoadDegradesToFallbackWithOneWarning(t *testing.T) {
	source := &fakeSource{listErr: errors.New("connection refused")}
	rec, _, notifier := newTestReconciler(t, source, Options{})

	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want degraded success", err)
	}
	if got, want := len(memes), len(fallbackMemes()); got != want {
		t.Errorf("len(memes) = %d, want the %d fallback entries", got, want)
	}
	if got := len(notifier.warnings()); got != 1 {
		t.Errorf("got %d warnings, want exactly 1", got)
	}
}

func TestLoadWarnsOnDroppedRecords(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}, dropped: 2}
	rec, _, notifier := newTestReconciler(t, source, Options{})

	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	warnings := notifier.warnings()
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if !strings.Contains(warnings[0].Message, "2") {
		t.Errorf("warning %q does not mention the dropped count", warnings[0].Message)
	}
}

func TestLoadStampsOverlayFlags(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, store, _ := newTestReconciler(t, source, Options{})

	store.Write(overlay.SlotLiked, overlay.NewSet(serverID))
	store.Write(overlay.SlotSaved, overlay.NewSet("jjal-002"))

	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, m := range memes {
		if got, want := m.IsFavorite, m.ID == serverID; got != want {
			t.Errorf("%s IsFavorite = %v, want %v", m.ID, got, want)
		}
		if got, want := m.IsSaved, m.ID == "jjal-002"; got != want {
			t.Errorf("%s IsSaved = %v, want %v", m.ID, got, want)
		}
	}
}

func TestLoadEnrichesNicknames(t *testing.T) {
	source := &fakeSource{
		memes:     []models.Meme{serverMeme(serverID)},
		nicknames: map[string]string{ownerID: "무도팬"},
	}
	rec, _, _ := newTestReconciler(t, source, Options{})

	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := memes[0].OwnerNickname, "무도팬"; got != want {
		t.Errorf("OwnerNickname = %q, want %q", got, want)
	}
}

func TestToggleLikeIsAnInvolution(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, store, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	before, _ := rec.Get(serverID)

	liked, err := rec.ToggleLike(serverID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if !liked.IsFavorite {
		t.Error("first toggle: IsFavorite = false, want true")
	}
	if got, want := liked.Likes, before.Likes+1; got != want {
		t.Errorf("first toggle: Likes = %d, want %d", got, want)
	}
	if !store.Read(overlay.SlotLiked).Contains(serverID) {
		t.Error("liked slot does not contain the id after like")
	}

	unliked, err := rec.ToggleLike(serverID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if unliked.IsFavorite {
		t.Error("second toggle: IsFavorite = true, want false")
	}
	if got, want := unliked.Likes, before.Likes; got != want {
		t.Errorf("second toggle: Likes = %d, want %d", got, want)
	}
	if store.Read(overlay.SlotLiked).Contains(serverID) {
		t.Error("liked slot still contains the id after unlike")
	}
}

func TestToggleLikeClampsAtZero(t *testing.T) {
	m := serverMeme(serverID)
	m.Likes = 0
	source := &fakeSource{memes: []models.Meme{m}}
	rec, store, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Force the liked state without a count bump, as a fresh device that
	// liked the meme before the server reset its counter would see it.
	store.Write(overlay.SlotLiked, overlay.NewSet(serverID))
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := rec.ToggleLike(serverID)
	if err != nil {
		t.Fatalf("ToggleLike() error = %v", err)
	}
	if got.Likes != 0 {
		t.Errorf("Likes = %d, want clamp at 0", got.Likes)
	}
}

func TestToggleLikeUnknownID(t *testing.T) {
	rec, _, _ := newTestReconciler(t, &fakeSource{}, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := rec.ToggleLike("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleLike(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestToggleSaveGeneralScopeKeepsRecord(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, store, _ := newTestReconciler(t, source, Options{Scope: ScopeAll})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	meme, removed, err := rec.ToggleSave(serverID)
	if err != nil {
		t.Fatalf("ToggleSave() error = %v", err)
	}
	if !meme.IsSaved || removed {
		t.Errorf("save: IsSaved = %v removed = %v, want true false", meme.IsSaved, removed)
	}

	meme, removed, err = rec.ToggleSave(serverID)
	if err != nil {
		t.Fatalf("ToggleSave() error = %v", err)
	}
	if meme.IsSaved || removed {
		t.Errorf("unsave: IsSaved = %v removed = %v, want false false", meme.IsSaved, removed)
	}
	if _, err := rec.Get(serverID); err != nil {
		t.Errorf("record left the general-scope collection on unsave: %v", err)
	}
	if store.Read(overlay.SlotSaved).Contains(serverID) {
		t.Error("saved slot still contains the id after unsave")
	}
}

func TestToggleSaveSavedScopeRemovesOnUnsave(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, store, _ := newTestReconciler(t, source, Options{Scope: ScopeSaved})

	store.Write(overlay.SlotSaved, overlay.NewSet(serverID))
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	meme, removed, err := rec.ToggleSave(serverID)
	if err != nil {
		t.Fatalf("ToggleSave() error = %v", err)
	}
	if meme.IsSaved {
		t.Error("IsSaved = true after unsave")
	}
	if !removed {
		t.Error("removed = false, want removal from the saved view")
	}
	if _, err := rec.Get(serverID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after saved-view removal error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRequiresOwnerOrAdmin(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, _, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	stranger := Identity{UserID: "99999999-8888-4777-9666-555555555555"}
	if err := rec.Delete(context.Background(), serverID, stranger); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("stranger Delete error = %v, want ErrPermissionDenied", err)
	}
	if len(source.deletedMemes) != 0 {
		t.Errorf("denied delete still reached the source: %v", source.deletedMemes)
	}

	if err := rec.Delete(context.Background(), serverID, Identity{UserID: ownerID}); err != nil {
		t.Errorf("owner Delete error = %v", err)
	}
}

func TestDeleteFallbackNeedsAdmin(t *testing.T) {
	// Fallback entries have no owner, so only an admin may remove them.
	rec, _, _ := newTestReconciler(t, &fakeSource{}, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := rec.Delete(context.Background(), "jjal-001", Identity{UserID: ownerID}); !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("non-admin fallback Delete error = %v, want ErrPermissionDenied", err)
	}
	if err := rec.Delete(context.Background(), "jjal-001", Identity{IsAdmin: true}); err != nil {
		t.Errorf("admin fallback Delete error = %v", err)
	}
}

func TestDeleteFallbackHidesPermanently(t *testing.T) {
	source := &fakeSource{}
	rec, store, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	admin := Identity{IsAdmin: true}
	if err := rec.Delete(context.Background(), "jjal-001", admin); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(source.deletedMemes) != 0 {
		t.Errorf("fallback delete reached the source: %v", source.deletedMemes)
	}
	if !store.Read(overlay.SlotDeletedFallback).Contains("jjal-001") {
		t.Error("deleted-fallback slot does not contain the id")
	}

	// The hide must survive a reload.
	memes, err := rec.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for _, m := range memes {
		if m.ID == "jjal-001" {
			t.Error("hidden fallback meme came back after reload")
		}
	}
}

func TestDeleteServerRecordRemovesBlobAndReloads(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID), serverMeme(otherServerID)}}
	rec, _, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := rec.Delete(context.Background(), serverID, Identity{UserID: ownerID}); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, want := len(source.deletedMemes), 1; got != want {
		t.Fatalf("len(deletedMemes) = %d, want %d", got, want)
	}
	if source.deletedMemes[0] != serverID {
		t.Errorf("deleted %q, want %q", source.deletedMemes[0], serverID)
	}
	if len(source.deletedImages) != 1 {
		t.Errorf("len(deletedImages) = %d, want 1", len(source.deletedImages))
	}
	if _, err := rec.Get(serverID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if _, err := rec.Get(otherServerID); err != nil {
		t.Errorf("unrelated record vanished: %v", err)
	}
}

func TestDeleteServerRecordFailureLeavesCollection(t *testing.T) {
	source := &fakeSource{
		memes:         []models.Meme{serverMeme(serverID)},
		deleteMemeErr: errors.New("row level security"),
	}
	rec, _, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := rec.Delete(context.Background(), serverID, Identity{UserID: ownerID}); err == nil {
		t.Fatal("Delete() error = nil, want failure")
	}
	if _, err := rec.Get(serverID); err != nil {
		t.Errorf("failed delete removed the record anyway: %v", err)
	}
}

func TestFilterByQueryAndCategory(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, _, _ := newTestReconciler(t, source, Options{})
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		query    string
		category models.Category
		wantIDs  []string
	}{
		{name: "tag query", query: "웃김", wantIDs: []string{serverID, "jjal-002"}},
		{name: "title query", query: "해골", wantIDs: []string{"jjal-002"}},
		{name: "quote query case-insensitive spaces", query: "  쩔어", wantIDs: []string{"jjal-003"}},
		{name: "category", category: "박명수", wantIDs: []string{"jjal-001"}},
		{name: "sentinel category matches all", category: models.CategoryAll, wantIDs: []string{serverID, "jjal-001", "jjal-002", "jjal-003"}},
		{name: "query and category", query: "웃김", category: "정준하", wantIDs: []string{"jjal-002"}},
		{name: "no match", query: "화남", wantIDs: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rec.Filter(tt.query, tt.category, ScopeAll)
			var gotIDs []string
			for _, m := range got {
				gotIDs = append(gotIDs, m.ID)
			}
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("Filter() ids = %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Fatalf("Filter() ids = %v, want %v", gotIDs, tt.wantIDs)
				}
			}
		})
	}
}

func TestFilterSavedScopeCollapsesToLikedByDefault(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, store, _ := newTestReconciler(t, source, Options{})

	store.Write(overlay.SlotLiked, overlay.NewSet(serverID))
	store.Write(overlay.SlotSaved, overlay.NewSet("jjal-001"))
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Historical behavior: the saved view actually shows liked records.
	saved := rec.Filter("", "", ScopeSaved)
	if len(saved) != 1 || saved[0].ID != serverID {
		t.Errorf("default saved scope = %v, want the liked record only", ids(saved))
	}
	liked := rec.Filter("", "", ScopeLiked)
	if len(liked) != 1 || liked[0].ID != serverID {
		t.Errorf("liked scope = %v, want the liked record only", ids(liked))
	}
}

func TestFilterSavedScopeHonorsSavedFlagWhenOpted(t *testing.T) {
	source := &fakeSource{memes: []models.Meme{serverMeme(serverID)}}
	rec, store, _ := newTestReconciler(t, source, Options{UseSavedFlagForSavedScope: true})

	store.Write(overlay.SlotLiked, overlay.NewSet(serverID))
	store.Write(overlay.SlotSaved, overlay.NewSet("jjal-001"))
	if _, err := rec.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	saved := rec.Filter("", "", ScopeSaved)
	if len(saved) != 1 || saved[0].ID != "jjal-001" {
		t.Errorf("opted saved scope = %v, want the saved record only", ids(saved))
	}
}

func ids(memes []models.Meme) []string {
	var out []string
	for _, m := range memes {
		out = append(out, m.ID)
	}
	return out
}

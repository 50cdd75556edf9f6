// Package catalog reconciles server records with the static fallback catalog
// and the device-local overlay (likes, saves, hidden fallback entries) into
// one consistent in-memory collection, and serves the filtered views and
// mutations every surface of the client goes through.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jjalhub/jjal-cli/internal/models"
	"github.com/jjalhub/jjal-cli/internal/overlay"
)

// Scope selects a view over the collection beyond text and category filters.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeSaved Scope = "saved"
	ScopeLiked Scope = "liked"
)

// NoticeKind classifies a notification for machine checks.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a non-fatal degradation or operation outcome surfaced to the
// presentation layer.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// RecordSource is the remote backend as consumed by the reconciler. The api
// client satisfies it; tests supply scripted fakes.
type RecordSource interface {
	ListMemes(ctx context.Context) (memes []models.Meme, dropped int, err error)
	LookupNicknames(ctx context.Context, ids []string) (map[string]string, error)
	DeleteMeme(ctx context.Context, id string) error
	DeleteImage(ctx context.Context, path string) error
	StoragePath(imageURL string) string
}

// Identity is the requester identity supplied by the caller on
// authorization-gated operations.
type Identity struct {
	UserID  string
	IsAdmin bool
}

var (
	// ErrPermissionDenied means the requester may not mutate the record.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound means the id is not in the current collection.
	ErrNotFound = errors.New("meme not found")
)

// Options tune a reconciler for its caller context.
type Options struct {
	// Scope is the view this reconciler backs. In ScopeSaved, unsaving a
	// record also removes it from the collection, matching the saved view
	// of the jjalhub web app.
	Scope Scope

	// UseSavedFlagForSavedScope switches the "saved" scope filter to match
	// the IsSaved flag. The historical behavior (zero value) matches
	// IsFavorite for both "saved" and "liked": the two scopes are
	// collapsed the same way in the web app, and that collapse is kept as
	// the default rather than silently diverging from it.
	UseSavedFlagForSavedScope bool

	// Fallback overrides the built-in static catalog. Nil means the
	// built-in one; an empty non-nil slice means no fallback at all.
	Fallback []models.Meme
}

// Reconciler owns the in-memory collection. All methods are safe for
// concurrent use; the collection is the single shared mutable resource and is
// only ever read or replaced under the mutex.
type Reconciler struct {
	source   RecordSource
	store    overlay.Store
	notifier Notifier
	opts     Options

	mu       sync.Mutex
	memes    []models.Meme
	loadSeq  uint64 // last started load
	applySeq uint64 // last load whose result was committed
}

// New creates a reconciler. notifier may be nil, in which case notices are
// dropped.
func New(source RecordSource, store overlay.Store, notifier Notifier, opts Options) *Reconciler {
	if notifier == nil {
		notifier = NotifierFunc(func(Notice) {})
	}
	if opts.Scope == "" {
		opts.Scope = ScopeAll
	}
	if opts.Fallback == nil {
		opts.Fallback = FallbackCatalog()
	}
	return &Reconciler{source: source, store: store, notifier: notifier, opts: opts}
}

func (r *Reconciler) warn(format string, args ...interface{}) {
	r.notifier.Notify(Notice{Kind: NoticeWarning, Message: fmt.Sprintf(format, args...)})
}

// Load replaces the collection from the record source, degrading to the
// fallback catalog on any failure. Every failure mode ends in "show
// something": the only way Load returns an empty collection is an empty
// source combined with an empty (or fully hidden) fallback catalog.
func (r *Reconciler) Load(ctx context.Context) ([]models.Meme, error) {
	r.mu.Lock()
	r.loadSeq++
	seq := r.loadSeq
	r.mu.Unlock()

	remote, dropped, err := r.source.ListMemes(ctx)
	if err != nil {
		// Unreachable or unconfigured source. The fallback catalog is
		// the whole collection; one warning covers the occurrence.
		r.warn("could not reach the meme service, showing the built-in catalog: %v", err)
		remote = nil
	}
	if dropped > 0 {
		r.warn("skipped %d malformed record(s) from the meme service", dropped)
	}

	if len(remote) > 0 {
		r.enrichNicknames(ctx, remote)
	}

	merged := r.merge(remote)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq < r.applySeq {
		// A newer load already committed; this result is stale.
		return snapshot(r.memes), nil
	}
	r.applySeq = seq
	r.memes = merged
	return snapshot(r.memes), nil
}

// enrichNicknames resolves owner display names best-effort. Absent names are
// simply omitted.
func (r *Reconciler) enrichNicknames(ctx context.Context, memes []models.Meme) {
	idSet := make(map[string]bool)
	var ids []string
	for _, m := range memes {
		if m.OwnerID != "" && !idSet[m.OwnerID] {
			idSet[m.OwnerID] = true
			ids = append(ids, m.OwnerID)
		}
	}
	if len(ids) == 0 {
		return
	}

	names, err := r.source.LookupNicknames(ctx, ids)
	if err != nil {
		r.warn("could not resolve uploader nicknames: %v", err)
		return
	}
	for i := range memes {
		if name, ok := names[memes[i].OwnerID]; ok {
			memes[i].OwnerNickname = name
		}
	}
}

// merge concatenates remote records with the fallback catalog minus hidden
// entries, deduplicates by id with remote winning, and stamps the
// overlay-derived flags onto every record.
func (r *Reconciler) merge(remote []models.Meme) []models.Meme {
	liked := r.store.Read(overlay.SlotLiked)
	saved := r.store.Read(overlay.SlotSaved)
	deleted := r.store.Read(overlay.SlotDeletedFallback)

	merged := make([]models.Meme, 0, len(remote)+len(r.opts.Fallback))
	seen := make(map[string]bool, len(remote))

	for _, m := range remote {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		merged = append(merged, m)
	}
	for _, m := range r.opts.Fallback {
		if seen[m.ID] || deleted.Contains(m.ID) {
			continue
		}
		seen[m.ID] = true
		merged = append(merged, m)
	}

	for i := range merged {
		merged[i].IsFavorite = liked.Contains(merged[i].ID)
		merged[i].IsSaved = saved.Contains(merged[i].ID)
	}
	return merged
}

// Memes returns a snapshot of the current collection.
func (r *Reconciler) Memes() []models.Meme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.memes)
}

// Get returns the record with the given id from the current collection.
func (r *Reconciler) Get(id string) (models.Meme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.memes {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Meme{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Filter returns the records matching a case-insensitive substring query
// (over title, quote and tags), an exact category (CategoryAll matches
// everything) and a scope. Collection order is preserved; no side effects.
func (r *Reconciler) Filter(query string, category models.Category, scope Scope) []models.Meme {
	r.mu.Lock()
	memes := snapshot(r.memes)
	r.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))

	var out []models.Meme
	for _, m := range memes {
		if !matchesQuery(m, query) {
			continue
		}
		if category != "" && category != models.CategoryAll && m.Category != category {
			continue
		}
		if !r.matchesScope(m, scope) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesQuery(m models.Meme, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(m.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Quote), query) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(string(tag)), query) {
			return true
		}
	}
	return false
}

func (r *Reconciler) matchesScope(m models.Meme, scope Scope) bool {
	switch scope {
	case ScopeSaved:
		if r.opts.UseSavedFlagForSavedScope {
			return m.IsSaved
		}
		return m.IsFavorite
	case ScopeLiked:
		return m.IsFavorite
	default:
		return true
	}
}

// ToggleLike flips the favorite flag of id, adjusts the like count by one in
// the matching direction (clamped at zero) and persists the liked slot. The
// updated record is returned so a caller holding an open detail view can
// re-point it.
func (r *Reconciler) ToggleLike(id string) (models.Meme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.memes, id)
	if i < 0 {
		return models.Meme{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m := &r.memes[i]
	m.IsFavorite = !m.IsFavorite
	if m.IsFavorite {
		m.Likes++
	} else if m.Likes > 0 {
		m.Likes--
	}

	r.writeFlag(overlay.SlotLiked, id, m.IsFavorite)
	return *m, nil
}

// ToggleSave flips the saved flag of id and persists the saved slot. In a
// saved-scope reconciler an unsave also removes the record from the
// collection; removed reports whether that happened.
func (r *Reconciler) ToggleSave(id string) (meme models.Meme, removed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.memes, id)
	if i < 0 {
		return models.Meme{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	m := &r.memes[i]
	m.IsSaved = !m.IsSaved
	meme = *m

	r.writeFlag(overlay.SlotSaved, id, m.IsSaved)

	if r.opts.Scope == ScopeSaved && !m.IsSaved {
		r.memes = append(r.memes[:i], r.memes[i+1:]...)
		removed = true
	}
	return meme, removed, nil
}

// writeFlag updates one overlay slot to include or exclude id. A failed
// write is reported but does not roll back the in-memory flag; the flag
// stays authoritative until the next Load.
func (r *Reconciler) writeFlag(slot overlay.Slot, id string, present bool) {
	set := r.store.Read(slot)
	if present {
		set.Add(id)
	} else {
		set.Remove(id)
	}
	if err := r.store.Write(slot, set); err != nil {
		r.warn("could not persist %s state: %v", slot, err)
	}
}

// Delete removes a record. Fallback-catalog entries are hidden locally and
// permanently via the deleted-fallback overlay slot; server records are
// deleted remotely (blob first, best-effort) and the whole collection is
// reloaded on success to stay consistent with concurrent external changes.
func (r *Reconciler) Delete(ctx context.Context, id string, requester Identity) error {
	r.mu.Lock()
	i := indexOf(r.memes, id)
	if i < 0 {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m := r.memes[i]

	if !requester.IsAdmin && (m.OwnerID == "" || m.OwnerID != requester.UserID) {
		r.mu.Unlock()
		return fmt.Errorf("%w: only the uploader or an admin can delete this meme", ErrPermissionDenied)
	}

	if !models.IsServerID(m.ID) {
		// No server counterpart: hide locally, terminal.
		r.memes = append(r.memes[:i], r.memes[i+1:]...)
		r.writeFlag(overlay.SlotDeletedFallback, id, true)
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	// Remote deletion happens outside the lock; state is untouched until
	// the reload, so a failure leaves the collection exactly as it was.
	if path := r.source.StoragePath(m.ImageURL); path != "" {
		if err := r.source.DeleteImage(ctx, path); err != nil {
			r.warn("could not delete stored image for %s: %v", id, err)
		}
	}
	if err := r.source.DeleteMeme(ctx, id); err != nil {
		return fmt.Errorf("failed to delete meme %s: %w", id, err)
	}

	_, err := r.Load(ctx)
	return err
}

func indexOf(memes []models.Meme, id string) int {
	for i, m := range memes {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func snapshot(memes []models.Meme) []models.Meme {
	out := make([]models.Meme, len(memes))
	copy(out, memes)
	return out
}

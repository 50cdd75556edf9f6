// Package commands implements the jjal command surface.
package commands

import (
	"fmt"
	"os"

	"github.com/jjalhub/jjal-cli/internal/api"
	"github.com/jjalhub/jjal-cli/internal/auth"
	"github.com/jjalhub/jjal-cli/internal/catalog"
	"github.com/jjalhub/jjal-cli/internal/config"
	"github.com/jjalhub/jjal-cli/internal/overlay"
)

// Env bundles the collaborators every command needs.
type Env struct {
	Cfg      *config.Config
	Client   *api.Client
	Sessions *auth.Store
	Session  *auth.Session // nil when signed out
}

// newEnv loads settings, builds the backend client and restores any stored
// session onto it.
func newEnv() (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	client := api.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey)
	sessions := auth.NewStore(cfg.StateDir, cfg.Backend.AnonKey)

	// stderr, not stdout: the mcp command shares this path and its stdout
	// carries the protocol
	session, err := sessions.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %v (continuing signed out)\n", err)
		session = nil
	}
	if session != nil {
		client.AccessToken = session.AccessToken
	}

	return &Env{Cfg: cfg, Client: client, Sessions: sessions, Session: session}, nil
}

// newReconciler builds a reconciler for the given view scope, wired to the
// on-disk overlay store and a notifier that prints degradations.
func (e *Env) newReconciler(scope catalog.Scope) *catalog.Reconciler {
	store := overlay.NewFileStore(e.Cfg.StateDir)
	return catalog.New(e.Client, store, printNotifier(), catalog.Options{Scope: scope})
}

func printNotifier() catalog.Notifier {
	return catalog.NotifierFunc(func(n catalog.Notice) {
		switch n.Kind {
		case catalog.NoticeWarning:
			fmt.Printf("⚠️  %s\n", n.Message)
		case catalog.NoticeError:
			fmt.Printf("❌ %s\n", n.Message)
		default:
			fmt.Printf("💡 %s\n", n.Message)
		}
	})
}

// requireSession returns the signed-in session or an instructive error.
func (e *Env) requireSession() (*auth.Session, error) {
	if e.Session == nil {
		return nil, fmt.Errorf("you need to sign in first. Use 'jjal auth login'")
	}
	return e.Session, nil
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

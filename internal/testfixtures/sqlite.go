package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/trainerdesk/internal/db"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// NewSQLite opens a migrated database in a temporary directory. It is
// closed when the test ends.
func NewSQLite(tb testing.TB) *db.SQLite {
	tb.Helper()

	repo, err := db.New(filepath.Join(tb.TempDir(), "trainerdesk.db"))
	if err != nil {
		tb.Fatalf("opening test database: %v", err)
	}
	tb.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

// Seed stores participants and sessions, failing the test on the first error.
func Seed(tb testing.TB, repo session.Repository, participants []*session.Participant, sessions ...*session.Session) {
	tb.Helper()

	ctx := context.Background()
	for _, p := range participants {
		if err := repo.CreateParticipant(ctx, p); err != nil {
			tb.Fatalf("seeding participant %s: %v", p.ID, err)
		}
	}
	for _, s := range sessions {
		if err := repo.SaveSession(ctx, s); err != nil {
			tb.Fatalf("seeding session %s: %v", s.ID, err)
		}
	}
}

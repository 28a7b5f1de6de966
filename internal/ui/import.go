package ui

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// importColumns is the expected CSV layout. The header row is optional.
var importColumns = []string{"client", "title", "date", "start", "minutes", "notes"}

func (a *App) importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Import sessions from a CSV file",
		Long: `Import sessions from a CSV file with the columns

  client,title,date,start,minutes,notes

date is YYYY-MM-DD, start is HH:MM and notes may be omitted. Clients are
matched by name and created when missing. The file may be UTF-8 or UTF-16
with a byte order mark, as spreadsheet exports often are.

Nothing is written unless every row is valid.`,
		Example: `  trainerdesk import bookings.csv
  trainerdesk import bookings.csv --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("import file does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking import file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("import path is a directory: %s", sourcePath)
			}

			f, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer func() { _ = f.Close() }()

			ctx := cmd.Context()
			batch, err := a.readImport(ctx, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, "Would import %d sessions and %d new clients from %s\n",
					len(batch.sessions), len(batch.participants), sourcePath)
				return nil
			}

			if err := writeImport(ctx, a.repo, batch); err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d sessions and %d new clients from %s\n",
				len(batch.sessions), len(batch.participants), sourcePath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without writing")
	return cmd
}

// importBatch holds the records parsed from one file. participants lists
// only clients that do not exist yet.
type importBatch struct {
	participants []*session.Participant
	sessions     []*session.Session
}

// readImport decodes r and resolves client names against the repository.
func (a *App) readImport(ctx context.Context, r io.Reader) (*importBatch, error) {
	existing, err := a.repo.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	byName := make(map[string]*session.Participant, len(existing))
	for _, p := range existing {
		byName[strings.ToLower(p.Name)] = p
	}

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	batch := &importBatch{}
	now := a.now()
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		if line == 1 && isImportHeader(record) {
			continue
		}
		if len(record) < len(importColumns)-1 {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, len(importColumns), len(record))
		}

		name := strings.TrimSpace(record[0])
		p, ok := byName[strings.ToLower(name)]
		if !ok {
			if p, err = session.NewParticipant(name, ""); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			p.CreatedAt = now
			byName[strings.ToLower(p.Name)] = p
			batch.participants = append(batch.participants, p)
		}

		s, err := parseImportRow(record, p.ID, now)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		batch.sessions = append(batch.sessions, s)
	}
	return batch, nil
}

func isImportHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), importColumns[0])
}

func parseImportRow(record []string, participantID string, now time.Time) (*session.Session, error) {
	raw := strings.TrimSpace(record[2])
	if raw == "" {
		return nil, dateutil.ErrInvalidDateFormat
	}
	day, err := dateutil.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	hour, minute, err := dateutil.ParseClock(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, err
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("%w: minutes must be a positive number, got %q", session.ErrMalformed, record[4])
	}

	start := dateutil.At(day, hour, minute)
	s := &session.Session{
		ID:            uuid.NewString(),
		ParticipantID: participantID,
		Title:         strings.TrimSpace(record[1]),
		Start:         start,
		End:           start.Add(time.Duration(minutes) * time.Minute),
		CreatedAt:     now,
	}
	if len(record) > 5 {
		s.Notes = strings.TrimSpace(record[5])
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// importer is implemented by stores that can write a batch atomically.
type importer interface {
	Import(ctx context.Context, participants []*session.Participant, sessions []*session.Session) error
}

func writeImport(ctx context.Context, repo session.Repository, batch *importBatch) error {
	if imp, ok := repo.(importer); ok {
		if err := imp.Import(ctx, batch.participants, batch.sessions); err != nil {
			return fmt.Errorf("importing: %w", err)
		}
		return nil
	}

	for _, p := range batch.participants {
		if err := repo.CreateParticipant(ctx, p); err != nil {
			return fmt.Errorf("importing client %q: %w", p.Name, err)
		}
	}
	for _, s := range batch.sessions {
		if err := repo.SaveSession(ctx, s); err != nil {
			return fmt.Errorf("importing session %q: %w", s.Title, err)
		}
	}
	return nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}

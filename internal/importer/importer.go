package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/XpoolX/vitalgym-sub000/internal/storage"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsInserted   int
	SessionsDuplicated int
}

// Importer reads legacy workout-log JSON files from an export directory and
// inserts them as historical sessions. History only: imported sessions never
// move a member's training-day cursor.
type Importer struct {
	db     *storage.DB
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case every file is
// re-examined (the database insert is idempotent either way).
func New(db *storage.DB, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// Import processes all .json files under the given export directory.
func (imp *Importer) Import(ctx context.Context, exportDir string) (*Stats, error) {
	err := filepath.WalkDir(exportDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		return imp.importFile(ctx, exportDir, path)
	})
	if err != nil {
		return &imp.stats, fmt.Errorf("walking %s: %w", exportDir, err)
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, exportDir, path string) error {
	relPath, err := filepath.Rel(exportDir, path)
	if err != nil {
		relPath = path
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", relPath, err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", relPath, err)
	}

	if imp.state != nil {
		done, err := imp.state.IsImported(relPath, info.Size(), hash)
		if err != nil {
			return fmt.Errorf("checking state for %s: %w", relPath, err)
		}
		if done {
			imp.stats.FilesSkipped++
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", relPath, err)
	}

	legacy, err := parseLegacyLog(data)
	if err != nil {
		imp.log.Warn("skipping unparseable file", "file", relPath, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	imp.stats.FilesProcessed++
	if imp.dryRun {
		imp.stats.SessionsInserted++
		return nil
	}

	userID, err := imp.db.GetOrCreateUser(ctx, legacy.User, "")
	if err != nil {
		return fmt.Errorf("resolving user %q: %w", legacy.User, err)
	}

	session, exercises := buildSession(legacy, userID)
	inserted, err := imp.db.InsertImportedSession(ctx, session, exercises)
	if err != nil {
		return fmt.Errorf("inserting session from %s: %w", relPath, err)
	}
	if inserted {
		imp.stats.SessionsInserted++
	} else {
		imp.stats.SessionsDuplicated++
	}

	if imp.state != nil {
		if err := imp.state.MarkImported(relPath, info.Size(), hash); err != nil {
			return fmt.Errorf("marking %s imported: %w", relPath, err)
		}
	}
	return nil
}

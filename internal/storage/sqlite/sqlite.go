package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/0x5457/signclip/internal/models"
	_ "modernc.org/sqlite"
)

// CatalogStore records metadata of every indexed pose file.
type CatalogStore struct {
	db *sql.DB
}

func New(path string) (*CatalogStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &CatalogStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS pose_catalog (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		version REAL NOT NULL,
		fps REAL NOT NULL,
		frames INTEGER NOT NULL,
		people INTEGER NOT NULL,
		points INTEGER NOT NULL,
		dims INTEGER NOT NULL,
		components TEXT,
		run_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_pose_catalog_file ON pose_catalog(file);
	CREATE INDEX IF NOT EXISTS idx_pose_catalog_run ON pose_catalog(run_id);`)
	return err
}

func (s *CatalogStore) Close() error { return s.db.Close() }

func (s *CatalogStore) UpsertEntries(entries []models.PoseEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO pose_catalog(id,file,version,fps,frames,people,points,dims,components,run_id)
		VALUES(?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET
        file=excluded.file,
        version=excluded.version,
        fps=excluded.fps,
        frames=excluded.frames,
        people=excluded.people,
        points=excluded.points,
        dims=excluded.dims,
        components=excluded.components,
        run_id=excluded.run_id`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()
	for _, e := range entries {
		if _, err := stmt.Exec(
			e.ID,
			e.File,
			e.Version,
			e.FPS,
			e.Frames,
			e.People,
			e.Points,
			e.Dims,
			strings.Join(e.Components, ","),
			e.RunID,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *CatalogStore) DeleteEntriesByFile(file string) error {
	_, err := s.db.Exec(`DELETE FROM pose_catalog WHERE file = ?`, file)
	return err
}

const selectColumns = `SELECT id,file,version,fps,frames,people,points,dims,components,run_id FROM pose_catalog`

func (s *CatalogStore) FindByFile(file string) ([]models.PoseEntry, error) {
	return s.query(selectColumns+` WHERE file = ? ORDER BY id`, file)
}

func (s *CatalogStore) List() ([]models.PoseEntry, error) {
	return s.query(selectColumns + ` ORDER BY file, id`)
}

func (s *CatalogStore) GetByID(id string) (*models.PoseEntry, error) {
	e, err := scan(s.db.QueryRow(selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (s *CatalogStore) query(q string, args ...any) ([]models.PoseEntry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []models.PoseEntry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (models.PoseEntry, error) {
	var e models.PoseEntry
	var components sql.NullString
	var runID sql.NullString
	if err := row.Scan(&e.ID, &e.File, &e.Version, &e.FPS, &e.Frames, &e.People, &e.Points, &e.Dims, &components, &runID); err != nil {
		return e, err
	}
	if components.String != "" {
		e.Components = strings.Split(components.String, ",")
	}
	e.RunID = runID.String
	return e, nil
}

package sqlvec

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/0x5457/signclip/internal/models"
	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

// Store keeps pose embeddings in a sqlite-vec vec0 table ranked by cosine
// distance, with pose metadata alongside for retrieval.
type Store struct {
	db        *sql.DB
	dimension int
}

func New(path string, dimension int) (*Store, error) {
	// enable sqlite-vec for all future connections
	sqlite_vec.Auto()
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	if err := migrate(db, dimension); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, dimension: dimension}, nil
}

func migrate(db *sql.DB, dim int) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS poses (
		id TEXT PRIMARY KEY,
		file TEXT NOT NULL,
		version REAL,
		fps REAL,
		frames INTEGER,
		people INTEGER,
		points INTEGER,
		dims INTEGER,
		components TEXT,
		run_id TEXT
	);`); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_poses_file ON poses(file);`); err != nil {
		return err
	}
	// vec0 dimension is fixed per table. If dim <= 0, defer creation until
	// the first Upsert when the dimension is known.
	if dim > 0 {
		return createVecTables(db, dim)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func createVecTables(db execer, dim int) error {
	if _, err := db.Exec(fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS vec_embeddings USING vec0(
        embedding float32[%d] distance_metric=cosine
    );`, dim)); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS vec_map (
        rid INTEGER UNIQUE NOT NULL,
        id TEXT UNIQUE NOT NULL
    );`); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_vec_map_id ON vec_map(id);`)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Upsert(entries []models.PoseEntry, embeddings [][]float32) error {
	if len(entries) != len(embeddings) {
		return fmt.Errorf("entries and embeddings length mismatch")
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := s.ensureVecTable(tx, embeddings); err != nil {
		_ = tx.Rollback()
		return err
	}

	poseStmt, err := tx.Prepare(`INSERT INTO poses(
		id,file,version,fps,frames,people,points,dims,components,run_id
	) VALUES(?,?,?,?,?,?,?,?,?,?)
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
	defer func() { _ = poseStmt.Close() }()

	insertVecStmt, err := tx.Prepare(`INSERT INTO vec_embeddings(embedding) VALUES(?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = insertVecStmt.Close() }()
	// vec0 tables reject INSERT OR REPLACE, so a stored vector is deleted and
	// re-inserted under the same rowid.
	deleteVecStmt, err := tx.Prepare(`DELETE FROM vec_embeddings WHERE rowid = ?`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = deleteVecStmt.Close() }()
	insertVecRowStmt, err := tx.Prepare(`INSERT INTO vec_embeddings(rowid, embedding) VALUES(?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = insertVecRowStmt.Close() }()
	upsertMapStmt, err := tx.Prepare(`INSERT OR REPLACE INTO vec_map(rid, id) VALUES(?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = upsertMapStmt.Close() }()
	selectRidStmt, err := tx.Prepare(`SELECT rid FROM vec_map WHERE id = ?`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = selectRidStmt.Close() }()

	for i, e := range entries {
		if len(embeddings[i]) != s.dimension {
			_ = tx.Rollback()
			return fmt.Errorf("embedding for %s has dimension %d, store has %d", e.File, len(embeddings[i]), s.dimension)
		}
		if _, err := poseStmt.Exec(
			e.ID, e.File, e.Version, e.FPS, e.Frames, e.People, e.Points, e.Dims,
			strings.Join(e.Components, ","), e.RunID,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		v, err := sqlite_vec.SerializeFloat32(embeddings[i])
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		var rid sql.NullInt64
		if err := selectRidStmt.QueryRow(e.ID).Scan(&rid); err != nil &&
			!errors.Is(err, sql.ErrNoRows) {
			_ = tx.Rollback()
			return err
		}
		if rid.Valid {
			if _, err := deleteVecStmt.Exec(rid.Int64); err != nil {
				_ = tx.Rollback()
				return err
			}
			if _, err := insertVecRowStmt.Exec(rid.Int64, v); err != nil {
				_ = tx.Rollback()
				return err
			}
			continue
		}
		res, err := insertVecStmt.Exec(v)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		newRid, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := upsertMapStmt.Exec(newRid, e.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) DeleteByFile(file string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	rows, err := tx.Query(`SELECT id FROM poses WHERE file = ?`, file)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			_ = tx.Rollback()
			return err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if _, err := tx.Exec(`DELETE FROM poses WHERE file = ?`, file); err != nil {
		_ = tx.Rollback()
		return err
	}
	if s.dimension == 0 {
		return tx.Commit()
	}
	for _, id := range ids {
		var rid sql.NullInt64
		if err := tx.QueryRow(`SELECT rid FROM vec_map WHERE id = ?`, id).Scan(&rid); err != nil &&
			!errors.Is(err, sql.ErrNoRows) {
			_ = tx.Rollback()
			return err
		}
		if !rid.Valid {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM vec_embeddings WHERE rowid = ?`, rid.Int64); err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.Exec(`DELETE FROM vec_map WHERE rid = ?`, rid.Int64); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Query returns the topK nearest poses. Score is cosine similarity.
func (s *Store) Query(embedding []float32, topK int) ([]models.SemanticHit, error) {
	if topK <= 0 {
		topK = 5
	}
	if s.dimension == 0 {
		return nil, nil
	}
	v, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
        WITH knn AS (
            SELECT rowid, distance
            FROM vec_embeddings
            WHERE embedding MATCH ?
            ORDER BY distance
            LIMIT ?
        )
        SELECT p.id, p.file, p.version, p.fps, p.frames, p.people, p.points, p.dims,
               p.components, p.run_id, k.distance
        FROM knn k
        JOIN vec_map m ON m.rid = k.rowid
        JOIN poses p ON p.id = m.id
        ORDER BY k.distance ASC
    `, v, topK)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var hits []models.SemanticHit
	for rows.Next() {
		var e models.PoseEntry
		var components string
		var distance float32
		if err := rows.Scan(
			&e.ID, &e.File, &e.Version, &e.FPS, &e.Frames, &e.People, &e.Points, &e.Dims,
			&components, &e.RunID, &distance,
		); err != nil {
			return nil, err
		}
		if components != "" {
			e.Components = strings.Split(components, ",")
		}
		hits = append(hits, models.SemanticHit{Entry: e, Score: 1 - distance})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

func (s *Store) ensureVecTable(tx *sql.Tx, embeddings [][]float32) error {
	if s.dimension > 0 {
		return nil
	}
	var name string
	err := tx.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='vec_embeddings'`).
		Scan(&name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return fmt.Errorf("cannot create vec_embeddings: unknown embedding dimension")
	}
	dim := len(embeddings[0])
	if name != "vec_embeddings" {
		if err := createVecTables(tx, dim); err != nil {
			return err
		}
	}
	s.dimension = dim
	return nil
}

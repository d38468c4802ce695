package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"weave/diagram"
)

// SQLite persists diagrams as rows in a local database file. A save
// rewrites the diagram's node and connector rows in one transaction;
// diagrams are small enough that a document-style rewrite beats diffing.
type SQLite struct {
	conn *sql.DB
	log  *zap.Logger

	// UploadFunc backs RequestImageUpload by producing the raw image
	// bytes (e.g. a file picker in the host). Unset requests fail with
	// ErrResolution.
	UploadFunc func(ctx context.Context, nodeID string) ([]byte, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS diagrams (
	id    TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS nodes (
	id          TEXT PRIMARY KEY,
	diagram_id  TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
	ord         INTEGER NOT NULL,
	type        TEXT NOT NULL,
	subtype     TEXT NOT NULL DEFAULT '',
	x           REAL NOT NULL,
	y           REAL NOT NULL,
	size        INTEGER NOT NULL,
	width       REAL NOT NULL DEFAULT 0,
	height      REAL NOT NULL DEFAULT 0,
	color       TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	text        TEXT NOT NULL DEFAULT '',
	bold        INTEGER NOT NULL DEFAULT 0,
	italic      INTEGER NOT NULL DEFAULT 0,
	underline   INTEGER NOT NULL DEFAULT 0,
	entity_ref  TEXT NOT NULL DEFAULT '',
	image_ref   TEXT NOT NULL DEFAULT '',
	transparent INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_nodes_diagram ON nodes(diagram_id, ord);
CREATE TABLE IF NOT EXISTS connectors (
	id           TEXT PRIMARY KEY,
	diagram_id   TEXT NOT NULL REFERENCES diagrams(id) ON DELETE CASCADE,
	ord          INTEGER NOT NULL,
	source_id    TEXT NOT NULL,
	source_angle REAL NOT NULL,
	target_id    TEXT NOT NULL,
	target_angle REAL NOT NULL,
	pen          TEXT NOT NULL,
	pen_width    INTEGER NOT NULL,
	color        TEXT NOT NULL DEFAULT '',
	icon         TEXT NOT NULL DEFAULT '',
	label        TEXT NOT NULL DEFAULT '',
	cp_x         REAL,
	cp_y         REAL
);
CREATE INDEX IF NOT EXISTS idx_connectors_diagram ON connectors(diagram_id, ord);
CREATE TABLE IF NOT EXISTS entities (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	avatar_ref TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS images (
	ref  TEXT PRIMARY KEY,
	data BLOB NOT NULL
);
`

// OpenSQLite opens (creating if needed) a diagram database with WAL mode
// and foreign keys enabled.
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return &SQLite{conn: conn, log: logger}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) Load(diagramID string) (*diagram.Diagram, error) {
	d := diagram.New(diagramID, "")
	err := s.conn.QueryRow(`SELECT title FROM diagrams WHERE id = ?`, diagramID).Scan(&d.Title)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: diagram %s", ErrNotFound, diagramID)
	}
	if err != nil {
		return nil, fmt.Errorf("loading diagram %s: %w", diagramID, err)
	}

	rows, err := s.conn.Query(`
		SELECT id, type, subtype, x, y, size, width, height, color, icon,
		       text, bold, italic, underline, entity_ref, image_ref, transparent
		FROM nodes WHERE diagram_id = ? ORDER BY ord
	`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n diagram.Node
		if err := rows.Scan(
			&n.ID, &n.Type, &n.Subtype, &n.X, &n.Y, &n.Size, &n.Width, &n.Height,
			&n.Color, &n.Icon, &n.Text, &n.Bold, &n.Italic, &n.Underline,
			&n.EntityRef, &n.ImageRef, &n.Transparent,
		); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		if err := d.AddNode(&n); err != nil {
			s.log.Warn("skipping stored node", zap.String("node", n.ID), zap.Error(err))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.conn.Query(`
		SELECT id, source_id, source_angle, target_id, target_angle,
		       pen, pen_width, color, icon, label, cp_x, cp_y
		FROM connectors WHERE diagram_id = ? ORDER BY ord
	`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("loading connectors: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var c diagram.Connector
		var cpx, cpy sql.NullFloat64
		if err := crows.Scan(
			&c.ID, &c.SourceID, &c.SourceAngle, &c.TargetID, &c.TargetAngle,
			&c.Pen, &c.PenWidth, &c.Color, &c.Icon, &c.Text, &cpx, &cpy,
		); err != nil {
			return nil, fmt.Errorf("scanning connector: %w", err)
		}
		if cpx.Valid && cpy.Valid {
			c.SetControlPoint(cpx.Float64, cpy.Float64)
		}
		if err := d.AddConnector(&c); err != nil {
			// Partial loads are survivable: the dangling edge is logged
			// and skipped, the editor opens with what remains.
			s.log.Warn("skipping stored connector", zap.String("connector", c.ID), zap.Error(err))
		}
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *SQLite) Save(d *diagram.Diagram) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO diagrams (id, title) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title
	`, d.ID, d.Title); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, err := tx.Exec(`DELETE FROM nodes WHERE diagram_id = ?`, d.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if _, err := tx.Exec(`DELETE FROM connectors WHERE diagram_id = ?`, d.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	for i, n := range d.Nodes {
		if _, err := tx.Exec(`
			INSERT INTO nodes (id, diagram_id, ord, type, subtype, x, y, size,
				width, height, color, icon, text, bold, italic, underline,
				entity_ref, image_ref, transparent)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, n.ID, d.ID, i, n.Type, n.Subtype, n.X, n.Y, n.Size,
			n.Width, n.Height, n.Color, n.Icon, n.Text, n.Bold, n.Italic, n.Underline,
			n.EntityRef, n.ImageRef, n.Transparent); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	for i, c := range d.Connectors {
		var cpx, cpy sql.NullFloat64
		if c.Curved() {
			cpx = sql.NullFloat64{Float64: *c.CPX, Valid: true}
			cpy = sql.NullFloat64{Float64: *c.CPY, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO connectors (id, diagram_id, ord, source_id, source_angle,
				target_id, target_angle, pen, pen_width, color, icon, label, cp_x, cp_y)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, d.ID, i, c.SourceID, c.SourceAngle,
			c.TargetID, c.TargetAngle, c.Pen, c.PenWidth, c.Color, c.Icon, c.Text,
			cpx, cpy); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// ListDiagrams returns the stored diagram ids and titles in id order.
func (s *SQLite) ListDiagrams() (ids, titles []string, err error) {
	rows, err := s.conn.Query(`SELECT id, title FROM diagrams ORDER BY id`)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		titles = append(titles, title)
	}
	return ids, titles, rows.Err()
}

// PutEntity registers or updates a resolvable external entity.
func (s *SQLite) PutEntity(e DisplayEntity) error {
	_, err := s.conn.Exec(`
		INSERT INTO entities (id, name, avatar_ref) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, avatar_ref = excluded.avatar_ref
	`, e.ID, e.Name, e.AvatarRef)
	return err
}

func (s *SQLite) ResolveEntity(ref string) (*DisplayEntity, error) {
	var e DisplayEntity
	err := s.conn.QueryRow(`SELECT id, name, avatar_ref FROM entities WHERE id = ?`, ref).
		Scan(&e.ID, &e.Name, &e.AvatarRef)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: entity %s: %v", ErrResolution, ref, err)
	}
	return &e, nil
}

func (s *SQLite) RequestImageUpload(ctx context.Context, nodeID string) (string, error) {
	if s.UploadFunc == nil {
		return "", fmt.Errorf("%w: no upload source", ErrResolution)
	}
	blob, err := s.UploadFunc(ctx, nodeID)
	if err != nil {
		return "", err
	}
	ref := uuid.NewString()
	if _, err := s.conn.ExecContext(ctx, `INSERT INTO images (ref, data) VALUES (?, ?)`, ref, blob); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return ref, nil
}

func (s *SQLite) LoadImage(ctx context.Context, ref string) ([]byte, error) {
	var blob []byte
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM images WHERE ref = ?`, ref).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: image %s", ErrResolution, ref)
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

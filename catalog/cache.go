package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// cache memoizes catalog scans in a small SQLite database. Entries are keyed
// by the corpus directory and invalidated when its modification time changes,
// so a refreshed corpus triggers a rescan.
type cache struct {
	conn  *sqlite.Conn
	stamp string
	fresh bool
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS meta(key TEXT PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS authors(
	id TEXT PRIMARY KEY,
	name_en TEXT NOT NULL,
	name_grc TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS works(
	author_id TEXT NOT NULL,
	id TEXT NOT NULL,
	title_en TEXT NOT NULL,
	title_grc TEXT NOT NULL,
	path TEXT NOT NULL,
	page_range TEXT NOT NULL,
	PRIMARY KEY(author_id, id)
);
CREATE TABLE IF NOT EXISTS scans(author_id TEXT PRIMARY KEY);
`

func openCache(path, dataDir string) (*cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate)
	if err != nil {
		return nil, fmt.Errorf("unable to open cache database: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, cacheSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to initialize cache schema: %w", err)
	}

	c := &cache{conn: conn, stamp: corpusStamp(dataDir)}

	var stored string
	err = sqlitex.Execute(conn, `SELECT value FROM meta WHERE key='stamp'`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			stored = stmt.ColumnText(0)
			return nil
		}})
	if err != nil {
		conn.Close()
		return nil, err
	}

	c.fresh = stored == c.stamp
	if !c.fresh {
		// Stale corpus stamp, drop everything and start over.
		if err := sqlitex.ExecuteScript(conn,
			`DELETE FROM authors; DELETE FROM works; DELETE FROM scans; DELETE FROM meta;`, nil); err != nil {
			conn.Close()
			return nil, err
		}
		err = sqlitex.Execute(conn, `INSERT INTO meta(key, value) VALUES('stamp', ?)`,
			&sqlitex.ExecOptions{Args: []any{c.stamp}})
		if err != nil {
			conn.Close()
			return nil, err
		}
		c.fresh = true
	}
	return c, nil
}

// corpusStamp derives the invalidation key for a corpus directory from its
// path and modification time.
func corpusStamp(dataDir string) string {
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		abs = dataDir
	}
	fi, err := os.Stat(dataDir)
	if err != nil {
		return abs
	}
	return abs + "@" + strconv.FormatInt(fi.ModTime().UnixNano(), 10)
}

func (c *cache) close() error {
	return c.conn.Close()
}

func (c *cache) authors() ([]Author, bool) {
	var haveScan bool
	err := sqlitex.Execute(c.conn, `SELECT 1 FROM meta WHERE key='authors_scanned'`,
		&sqlitex.ExecOptions{ResultFunc: func(*sqlite.Stmt) error {
			haveScan = true
			return nil
		}})
	if err != nil || !haveScan {
		return nil, false
	}

	var authors []Author
	err = sqlitex.Execute(c.conn, `SELECT id, name_en, name_grc FROM authors ORDER BY id`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			authors = append(authors, Author{
				ID:      stmt.ColumnText(0),
				NameEN:  stmt.ColumnText(1),
				NameGRC: stmt.ColumnText(2),
			})
			return nil
		}})
	if err != nil {
		return nil, false
	}
	return authors, true
}

func (c *cache) storeAuthors(authors []Author) {
	for _, a := range authors {
		err := sqlitex.Execute(c.conn,
			`INSERT OR REPLACE INTO authors(id, name_en, name_grc) VALUES(?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{a.ID, a.NameEN, a.NameGRC}})
		if err != nil {
			return
		}
	}
	_ = sqlitex.Execute(c.conn, `INSERT OR REPLACE INTO meta(key, value) VALUES('authors_scanned', '1')`, nil)
}

func (c *cache) works(authorID string) ([]Work, bool) {
	var haveScan bool
	err := sqlitex.Execute(c.conn, `SELECT 1 FROM scans WHERE author_id=?`,
		&sqlitex.ExecOptions{
			Args: []any{authorID},
			ResultFunc: func(*sqlite.Stmt) error {
				haveScan = true
				return nil
			}})
	if err != nil || !haveScan {
		return nil, false
	}

	var works []Work
	err = sqlitex.Execute(c.conn,
		`SELECT author_id, id, title_en, title_grc, path, page_range FROM works WHERE author_id=? ORDER BY id`,
		&sqlitex.ExecOptions{
			Args: []any{authorID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				works = append(works, Work{
					AuthorID:  stmt.ColumnText(0),
					ID:        stmt.ColumnText(1),
					TitleEN:   stmt.ColumnText(2),
					TitleGRC:  stmt.ColumnText(3),
					Path:      stmt.ColumnText(4),
					PageRange: stmt.ColumnText(5),
				})
				return nil
			}})
	if err != nil {
		return nil, false
	}
	return works, true
}

func (c *cache) storeWorks(authorID string, works []Work) {
	for _, w := range works {
		err := sqlitex.Execute(c.conn,
			`INSERT OR REPLACE INTO works(author_id, id, title_en, title_grc, path, page_range) VALUES(?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{Args: []any{w.AuthorID, w.ID, w.TitleEN, w.TitleGRC, w.Path, w.PageRange}})
		if err != nil {
			return
		}
	}
	_ = sqlitex.Execute(c.conn, `INSERT OR REPLACE INTO scans(author_id) VALUES(?)`,
		&sqlitex.ExecOptions{Args: []any{authorID}})
}

package sqlite

import (
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/multierr"

	"github.com/maranix/nodal/internal/sqlite/sqlite0"
)

type queryHash struct {
	hi uint64
	lo uint64
}

type cachedStmt struct {
	key       queryHash
	lastTouch int64
	stmt      *sqlite0.Stmt
	index     int
}

// stmtCache keeps hot compiled statements across calls, keyed by a hash
// of the SQL text. Eviction finalizes the least recently touched
// statement. Cached statements are parked reset; a connection drains its
// whole cache on close.
type stmtCache struct {
	entries map[queryHash]*cachedStmt
	h       *touchHeap
	maxSize int
}

func newStmtCache(maxSize int) *stmtCache {
	c := &stmtCache{
		entries: make(map[queryHash]*cachedStmt),
		maxSize: maxSize,
	}
	c.h = newTouchHeap(func(e *cachedStmt, i int) { e.index = i })
	return c
}

func hashQuery(sql string) queryHash {
	sum := xxh3.HashString128(sql)
	return queryHash{hi: sum.Hi, lo: sum.Lo}
}

func (c *stmtCache) size() int {
	return len(c.entries)
}

func (c *stmtCache) get(sql string, now time.Time) (*sqlite0.Stmt, bool) {
	e, ok := c.entries[hashQuery(sql)]
	if !ok {
		return nil, false
	}
	c.h.extract(e.index)
	e.lastTouch = now.Unix()
	c.h.put(e)
	return e.stmt, true
}

// put parks a compiled statement, evicting as needed. Eviction failures
// are joined into err; the new entry is stored regardless.
func (c *stmtCache) put(sql string, stmt *sqlite0.Stmt, now time.Time, err *error) {
	key := hashQuery(sql)
	if prev, ok := c.entries[key]; ok {
		// two different texts can collide only by hash; treat the
		// slot as taken and drop the newcomer
		if prev.stmt != stmt {
			multierr.AppendInto(err, stmt.Close())
		}
		return
	}
	e := &cachedStmt{key: key, lastTouch: now.Unix(), stmt: stmt}
	c.h.put(e)
	c.entries[key] = e
	for len(c.entries) > c.maxSize {
		victim := c.h.pop()
		delete(c.entries, victim.key)
		multierr.AppendInto(err, victim.stmt.Close())
	}
}

// close finalizes every cached statement, joining failures into err.
func (c *stmtCache) close(err *error) {
	for c.h.len() > 0 {
		e := c.h.pop()
		delete(c.entries, e.key)
		multierr.AppendInto(err, e.stmt.Close())
	}
}

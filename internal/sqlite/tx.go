package sqlite

const (
	beginStmt    = "BEGIN IMMEDIATE" // take the write lock up front instead of hitting SQLITE_BUSY mid-transaction
	commitStmt   = "COMMIT"
	rollbackStmt = "ROLLBACK"
)

func (c *Conn) Begin() error {
	return c.Exec(beginStmt)
}

func (c *Conn) Commit() error {
	return c.Exec(commitStmt)
}

func (c *Conn) Rollback() error {
	return c.Exec(rollbackStmt)
}

// WithTx runs fn inside a transaction: commit when fn returns nil,
// rollback otherwise. A rollback failure is reported only when fn itself
// succeeded.
func (c *Conn) WithTx(fn func() error) error {
	if err := c.Begin(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		_ = c.Rollback()
		return err
	}
	return c.Commit()
}

// WithSavepoint runs fn inside a savepoint with a connection-unique
// random name, so it nests inside an open transaction. fn failing rolls
// the savepoint back and releases it.
func (c *Conn) WithSavepoint(fn func() error) error {
	if err := c.Exec(c.spBegin); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rbErr := c.Exec(c.spRollback); rbErr == nil {
			_ = c.Exec(c.spRelease)
		}
		return err
	}
	return c.Exec(c.spRelease)
}

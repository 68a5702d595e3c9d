package sqlite0

// Open flags, combined by bitwise OR. Values match the native
// SQLITE_OPEN_* constants.
// https://www.sqlite.org/c3ref/open.html
const (
	OpenReadonly     = 0x00000001
	OpenReadWrite    = 0x00000002
	OpenCreate       = 0x00000004
	OpenURI          = 0x00000040
	OpenMemory       = 0x00000080
	OpenNoMutex      = 0x00008000
	OpenFullMutex    = 0x00010000
	OpenSharedCache  = 0x00020000
	OpenPrivateCache = 0x00040000
	OpenNoFollow     = 0x01000000
)

// Column storage classes as reported by sqlite3_column_type.
// https://www.sqlite.org/c3ref/c_blob.html
const (
	ColumnInteger = 1
	ColumnFloat   = 2
	ColumnText    = 3
	ColumnBlob    = 4
	ColumnNull    = 5
)

// InMemory is the open target for a private, ephemeral in-memory
// database. An empty path opens a temporary on-disk database instead.
const InMemory = ":memory:"

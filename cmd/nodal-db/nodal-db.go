package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/maranix/nodal/internal/sqlite"
)

var argv struct {
	dbPath      string
	memory      bool
	readonly    bool
	busyTimeout time.Duration
	initFile    string

	version bool
	help    bool
}

func parseArgs() {
	pflag.StringVar(&argv.dbPath, "db-path", "", "path to sqlite storage file")
	pflag.BoolVar(&argv.memory, "memory", false, "use a private in-memory database instead of --db-path")
	pflag.BoolVar(&argv.readonly, "readonly", false, "open the database read-only")
	pflag.DurationVar(&argv.busyTimeout, "busy-timeout", 5*time.Second, "how long to wait on a locked database")
	pflag.StringVar(&argv.initFile, "init", "", "run the statements from this file before the command-line statements")

	pflag.BoolVarP(&argv.help, "help", "h", false, "print usage instructions and exit")
	pflag.BoolVar(&argv.version, "version", false, "show engine version and exit")

	pflag.Parse()
}

func main() {
	log.SetPrefix("[nodal-db] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)
	parseArgs()
	if argv.help {
		pflag.Usage()
		return
	}
	if argv.version {
		_, _ = fmt.Fprintf(os.Stderr, "sqlite %s\n", sqlite.Version())
		return
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	sqlite.SetLogf(func(code int, msg string) {
		log.Printf("[engine] (%d) %s", code, msg)
	})

	db, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("[error] close: %v", err)
		}
	}()
	if err := db.Conn().SetBusyTimeout(argv.busyTimeout); err != nil {
		return err
	}

	if argv.initFile != "" {
		script, err := os.ReadFile(argv.initFile)
		if err != nil {
			return fmt.Errorf("could not read init file %q: %w", argv.initFile, err)
		}
		if err := db.Conn().Exec(string(script)); err != nil {
			return err
		}
	}

	for _, stmt := range pflag.Args() {
		if err := runStatement(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

func openDB() (*sqlite.DB, error) {
	if argv.memory {
		return sqlite.InMemory()
	}
	if argv.dbPath == "" {
		return nil, fmt.Errorf("--db-path must not be empty (or pass --memory)")
	}
	if argv.readonly {
		return sqlite.Open(argv.dbPath, sqlite.OpenReadonly)
	}
	return sqlite.Open(argv.dbPath)
}

// runStatement prints query results as a tab-separated table and reports
// the affected-row count for everything else.
func runStatement(db *sqlite.DB, stmt string) error {
	if !isQuery(stmt) {
		if err := db.Execute(stmt); err != nil {
			return err
		}
		n, err := db.UpdatedRows()
		if err != nil {
			return err
		}
		log.Printf("ok, %d row(s) affected", n)
		return nil
	}

	rs, err := db.Query(stmt)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(rs.Columns(), "\t"))
	for _, row := range rs.Rows() {
		parts := make([]string, row.Len())
		for i := 0; i < row.Len(); i++ {
			parts[i] = renderValue(row.At(i))
		}
		fmt.Fprintln(w, strings.Join(parts, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	log.Printf("%d row(s)", rs.Len())
	return nil
}

func isQuery(stmt string) bool {
	head := strings.ToUpper(strings.TrimSpace(stmt))
	return strings.HasPrefix(head, "SELECT") ||
		strings.HasPrefix(head, "WITH") ||
		strings.HasPrefix(head, "PRAGMA") ||
		strings.HasPrefix(head, "EXPLAIN")
}

func renderValue(v sqlite.Value) string {
	switch v.Kind() {
	case sqlite.KindNull:
		return "NULL"
	case sqlite.KindBlob:
		return fmt.Sprintf("x'%x'", v.Blob())
	default:
		return fmt.Sprint(v.Any())
	}
}

package db

import (
	"database/sql"
	"database/sql/driver"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	msqlite "modernc.org/sqlite"
)

// SQLite's LOWER only folds ASCII letters. Both SQLite drivers get a
// unicode_lower function that folds like strings.ToLower, so search text
// and column values are lowered the same way.
const (
	unicodeLower = "unicode_lower"

	// cgoDriverName is go-sqlite3 with unicode_lower on every connection.
	cgoDriverName = "sqlite3_zoo"
)

func init() {
	sql.Register(cgoDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(unicodeLower, lowerValue, true)
		},
	})
	msqlite.MustRegisterDeterministicScalarFunction(unicodeLower, 1,
		func(_ *msqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return lowerValue(args[0]), nil
		})
}

// lowerValue lowers text and passes NULL and other values through.
func lowerValue(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}

// lowerFunc names the SQL function matching strings.ToLower for the
// dialect of q. PostgreSQL's LOWER already folds Unicode.
func lowerFunc(q *gorm.DB) string {
	if q.Dialector != nil && q.Dialector.Name() == "sqlite" {
		return unicodeLower
	}
	return "LOWER"
}

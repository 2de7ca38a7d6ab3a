// Package repository holds the SQL data access layer.  Each repository owns
// one table and exposes explicit query functions; nothing is lazily loaded.
//
// The sentinel values below let handlers tell failure cases apart without
// inspecting driver errors.
package repository

import (
    "errors"

    "github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup or a write matched no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects the write, such as
// bookmarking the same template twice.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering an email already in use.
var ErrEmailExists = errors.New("email already exists")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

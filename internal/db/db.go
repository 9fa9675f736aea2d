package db

import (
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the transcript database. The dialector is picked from the
// DSN: a mysql-style "user:pass@tcp(host:port)/db" DSN selects the mysql
// driver, anything else is treated as an embedded sqlite file.
func Connect(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	if strings.Contains(dsn, "@tcp(") {
		dial = gormmysql.Open(dsn)
	} else {
		dial = gormsqlite.Open(dsn)
	}
	return gorm.Open(dial, &gorm.Config{})
}

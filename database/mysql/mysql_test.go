package mysql

import "testing"

func TestConnectionDSN(t *testing.T) {
	c := connection{
		Host:     "db.local",
		Port:     3306,
		Username: "indexer",
		Password: "secret",
		DBName:   "stime",
	}

	want := "indexer:secret@tcp(db.local:3306)/stime?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := c.dsn(); got != want {
		t.Errorf("dsn = %s, want %s", got, want)
	}
}

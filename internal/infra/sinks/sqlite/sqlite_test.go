package sqlite

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

func TestSQLiteSink_WritesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "anon.db")
	sink := NewSQLiteSink(path, "people")
	if err := sink.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteHeader([]string{"id", "e-mail", "id"}); err != nil {
		t.Fatal(err)
	}
	for _, rec := range [][]string{{"1", "a@example.com", "x"}, {"2", "b@example.org"}} {
		if err := sink.Write(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT "id", "col_1", "col_2" FROM "people" ORDER BY "id"`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var got [][3]sql.NullString
	for rows.Next() {
		var r [3]sql.NullString
		if err := rows.Scan(&r[0], &r[1], &r[2]); err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0][1].String != "a@example.com" || got[1][2].Valid {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestSQLiteSink_RejectsWiderRecords(t *testing.T) {
	sink := NewSQLiteSink(filepath.Join(t.TempDir(), "a.db"), "t1")
	if err := sink.Connect(); err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	if err := sink.Write([]string{"a"}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write([]string{"a", "b"}); err == nil {
		t.Fatal("expected error for record wider than table")
	}
}

func TestSQLiteSink_RejectsBadTable(t *testing.T) {
	sink := NewSQLiteSink(filepath.Join(t.TempDir(), "a.db"), "drop")
	if err := sink.Connect(); err == nil {
		t.Fatal("expected invalid table error")
	}
}

func TestColumnNames(t *testing.T) {
	got := columnNames([]string{"name", "bad name", "NAME"}, 4)
	want := []string{"name", "col_1", "col_2", "col_3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columnNames[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSQLiteSink_HeaderOnlyCreatesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	sink := NewSQLiteSink(path, "empty_rows")
	if err := sink.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteHeader([]string{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM "empty_rows"`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected empty table, got %d rows", n)
	}
}

func TestSQLiteSink_ExistingTableKeepsItsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE "people" ("pk" TEXT, "full_name" TEXT)`); err != nil {
		t.Fatal(err)
	}

	sink := NewSQLiteSink(path, "people")
	if err := sink.Connect(); err != nil {
		t.Fatal(err)
	}
	if err := sink.WriteHeader([]string{"id", "name"}); err != nil {
		t.Fatal(err)
	}
	if err := sink.Write([]string{"1", "Ada"}); err != nil {
		t.Fatal(err)
	}
	err = sink.Write([]string{"2", "Bob", "extra"})
	if err == nil || !strings.Contains(err.Error(), "table people has 2") {
		t.Fatalf("expected width error naming the table, got %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	var pk, name string
	if err := db.QueryRow(`SELECT "pk", "full_name" FROM "people"`).Scan(&pk, &name); err != nil {
		t.Fatal(err)
	}
	if pk != "1" || name != "Ada" {
		t.Fatalf("unexpected row: %s %s", pk, name)
	}
}

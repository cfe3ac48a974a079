package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestDumpIncludesPgxDiagnostics(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_vehicles_plate", TableName: "vehicles", Message: "duplicate key value"}
	err := Wrap(CodeConflict, fmt.Errorf("insert vehicle: %w", pgErr), "plate already registered")

	d := Dump(err)
	if d.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", d.Code)
	}
	if d.PGCode != "23505" || d.PGConstraint != "idx_vehicles_plate" || d.PGTable != "vehicles" {
		t.Fatalf("unexpected pg diagnostics %+v", d)
	}
	if len(d.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d", len(d.Chain))
	}
}

func TestPostgresDiagnosticsFromLibPQ(t *testing.T) {
	err := &pq.Error{Code: "23514", Constraint: "owners_rut_format", Table: "owners"}
	diag, ok := PostgresDiagnostics(err)
	if !ok {
		t.Fatal("expected lib/pq error to be recognized")
	}
	if diag.Code != "23514" || diag.Constraint != "owners_rut_format" {
		t.Fatalf("unexpected diagnostics %+v", diag)
	}
}

func TestDumpNilAndPlain(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" {
		t.Fatalf("expected empty dump for nil error")
	}
	if _, ok := PostgresDiagnostics(fmt.Errorf("plain")); ok {
		t.Fatal("plain errors carry no diagnostics")
	}
}

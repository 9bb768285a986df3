package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrorDump is the log-side view of an error: its code, every wrapped layer and
// the Postgres diagnostics when a driver error sits in the chain.
type ErrorDump struct {
	TopMessage string        `json:"topMessage"`
	Code       Code          `json:"code,omitempty"`
	Chain      []string      `json:"chain,omitempty"`
	Postgres   *PostgresInfo `json:"postgres,omitempty"`
}

type PostgresInfo struct {
	Code       string `json:"code"`
	Message    string `json:"message,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Postgres = postgresInfo(err)
	return d
}

// Fields flattens the dump into logger fields.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if pg := d.Postgres; pg != nil {
		fields["pg_code"] = pg.Code
		fields["pg_message"] = pg.Message
		fields["pg_detail"] = pg.Detail
		fields["pg_table"] = pg.Table
		fields["pg_column"] = pg.Column
		fields["pg_constraint"] = pg.Constraint
	}
	return fields
}

// postgresInfo reads diagnostics from either driver: gorm's postgres dialect
// surfaces pgx errors, database/sql tooling surfaces lib/pq errors.
func postgresInfo(err error) *PostgresInfo {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PostgresInfo{
			Code:       pgxErr.Code,
			Message:    pgxErr.Message,
			Detail:     pgxErr.Detail,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Constraint: pgxErr.ConstraintName,
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PostgresInfo{
			Code:       string(pqErr.Code),
			Message:    pqErr.Message,
			Detail:     pqErr.Detail,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
		}
	}
	return nil
}

package errors

// Mapping of backend driver errors (ledger on Postgres, sink on ClickHouse) onto ErrorCode

import (
	stderrs "errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE values the ledger can run into
const (
	sqlUniqueViolation     = "23505"
	sqlNotNullViolation    = "23502"
	sqlCheckViolation      = "23514"
	sqlStringTruncation    = "22001"
	sqlInvalidText         = "22P02"
	sqlSerialization       = "40001"
	sqlDeadlock            = "40P01"
	sqlLockNotAvailable    = "55P03"
	sqlReadOnlyTransaction = "25006"
	sqlCannotConnectNow    = "57P03"
	sqlUndefinedTable      = "42P01"
)

// ClickHouse server exception codes the sink can run into
const (
	chTypeMismatch        int32 = 53
	chUnknownTable        int32 = 60
	chUnknownDatabase     int32 = 81
	chCannotParseText     int32 = 6
	chNoSuchColumn        int32 = 16
	chTimeoutExceeded     int32 = 159
	chTooManyQueries      int32 = 202
	chMemoryLimitExceeded int32 = 241
	chReadonly            int32 = 164
	chAuthFailed          int32 = 516
)

// pgCode maps a *pgconn.PgError anywhere in the chain; ok=false for foreign errors
func pgCode(err error) (ErrorCode, bool) {
	var pe *pgconn.PgError
	if !stderrs.As(err, &pe) {
		return ErrorCodeUnknown, false
	}
	switch pe.Code {
	case sqlUndefinedTable:
		return ErrorCodeNotFound, true
	case sqlUniqueViolation, sqlNotNullViolation, sqlCheckViolation, sqlStringTruncation, sqlInvalidText:
		// ledger values are produced by this process
		return ErrorCodeInvalidArgument, true
	case sqlReadOnlyTransaction, sqlCannotConnectNow, sqlSerialization, sqlDeadlock, sqlLockNotAvailable:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// chCode maps a clickhouse server exception anywhere in the chain
func chCode(err error) (ErrorCode, bool) {
	var ex *clickhouse.Exception
	if !stderrs.As(err, &ex) {
		return ErrorCodeUnknown, false
	}
	switch ex.Code {
	case chUnknownTable, chUnknownDatabase:
		return ErrorCodeNotFound, true
	case chTypeMismatch, chCannotParseText, chNoSuchColumn:
		return ErrorCodeInvalidArgument, true
	case chTimeoutExceeded, chTooManyQueries, chMemoryLimitExceeded, chReadonly, chAuthFailed:
		return ErrorCodeUnavailable, true
	}
	return ErrorCodeDB, true
}

// BackendCode classifies a driver error from either backend; DB when nothing matches
func BackendCode(err error) ErrorCode {
	if c, ok := pgCode(err); ok {
		return c
	}
	if c, ok := chCode(err); ok {
		return c
	}
	return ErrorCodeDB
}

// FromPostgresf wraps a ledger error with its mapped code; nil stays nil
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	c, ok := pgCode(err)
	if !ok {
		c = ErrorCodeDB
	}
	return Wrap(err, c, fmt.Sprintf(format, a...))
}

// FromClickhousef wraps a sink error with its mapped code; nil stays nil
func FromClickhousef(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	c, ok := chCode(err)
	if !ok {
		c = ErrorCodeDB
	}
	return Wrap(err, c, fmt.Sprintf(format, a...))
}

// IsUndefinedTable reports a missing relation on Postgres (42P01) or ClickHouse (60)
func IsUndefinedTable(err error) bool {
	var pe *pgconn.PgError
	if stderrs.As(err, &pe) {
		return pe.Code == sqlUndefinedTable
	}
	var ex *clickhouse.Exception
	return stderrs.As(err, &ex) && ex.Code == chUnknownTable
}

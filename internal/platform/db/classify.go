package db

import (
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ehr/hms/internal/platform/outcome"
)

// Postgres SQLSTATE codes the repositories care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// Classify tags a driver error with an outcome kind. nil stays nil and
// errors that are already tagged pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var tagged *outcome.Error
	if errors.As(err, &tagged) {
		return err
	}
	return outcome.New(kindOf(err), op, err)
}

func kindOf(err error) outcome.Kind {
	if errors.Is(err, pgx.ErrNoRows) {
		return outcome.KindNotFound
	}
	if errors.Is(err, ErrNotConnected) {
		return outcome.KindConnectivity
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation, pgErr.Code == codeForeignKeyViolation:
			return outcome.KindConflict
		case pgErr.Code == codeCheckViolation, pgErr.Code == codeNotNullViolation, pgErr.Code == codeInvalidText:
			return outcome.KindValidation
		case strings.HasPrefix(pgErr.Code, "08"):
			return outcome.KindConnectivity
		}
		return outcome.KindUnknown
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return outcome.KindConnectivity
	}
	if pgconn.Timeout(err) {
		return outcome.KindConnectivity
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return outcome.KindConnectivity
	}
	if strings.Contains(err.Error(), "closed pool") || strings.Contains(err.Error(), "conn closed") {
		return outcome.KindConnectivity
	}
	return outcome.KindUnknown
}

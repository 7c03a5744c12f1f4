package main

import (
	"errors"
	"fmt"
	"net/http"
)

// Error categories surfaced to the actor. Handlers translate them to
// status codes so a caller can always tell fix-input (400) from
// retry-with-fresh-data (409) from stop (404) from retry-later (5xx).
var (
	errValidasi  = errors.New("validasi gagal")
	errKonflik   = errors.New("konflik data")
	errTidakAda  = errors.New("data tidak ditemukan")
	errTerlarang = errors.New("akses ditolak")
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errValidasi, fmt.Sprintf(format, args...))
}

func conflictErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errKonflik, fmt.Sprintf(format, args...))
}

func forbiddenErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errTerlarang, fmt.Sprintf(format, args...))
}

// httpStatusFor maps a service error to its response status. Anything
// outside the taxonomy is an upstream failure the actor may retry later.
func httpStatusFor(err error) int {
	switch {
	case errors.Is(err, errValidasi):
		return http.StatusBadRequest
	case errors.Is(err, errKonflik):
		return http.StatusConflict
	case errors.Is(err, errTidakAda):
		return http.StatusNotFound
	case errors.Is(err, errTerlarang):
		return http.StatusForbidden
	default:
		return http.StatusBadGateway
	}
}

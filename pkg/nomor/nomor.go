// Package nomor formats and parses SKRD document numbers of the form
// SKRD-PBG/PERKIMTAN-GW/001/XII/2025 (3-digit per-year sequence, Roman
// month, 4-digit year).
package nomor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix is the fixed issuing-office prefix of every nomor surat.
const Prefix = "SKRD-PBG/PERKIMTAN-GW"

var romawi = []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X", "XI", "XII"}

// ErrInvalid is returned when a nomor surat cannot be parsed.
var ErrInvalid = errors.New("nomor surat tidak valid")

// Romawi renders a month as its Roman numeral I-XII.
func Romawi(m time.Month) string {
	if m < time.January || m > time.December {
		return "I"
	}
	return romawi[m-1]
}

// Format assembles a nomor surat for the given sequence number and date.
func Format(urutan int, t time.Time) string {
	return fmt.Sprintf("%s/%03d/%s/%d", Prefix, urutan, Romawi(t.Month()), t.Year())
}

// Urutan extracts the sequence component (3rd slash-delimited segment).
func Urutan(nomor string) (int, error) {
	parts := strings.Split(nomor, "/")
	if len(parts) < 3 {
		return 0, ErrInvalid
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, ErrInvalid
	}
	return n, nil
}

// Next derives the nomor surat following last, formatted for now's month and
// year. An empty or unparseable last starts the sequence at 1; the caller is
// responsible for only passing numbers from now's calendar year so the
// sequence resets across years.
func Next(last string, now time.Time) string {
	urutan := 1
	if last != "" {
		if u, err := Urutan(last); err == nil {
			urutan = u + 1
		}
	}
	return Format(urutan, now)
}

// YearSuffix is the pattern suffix that scopes a store scan to one year.
func YearSuffix(year int) string {
	return fmt.Sprintf("/%d", year)
}

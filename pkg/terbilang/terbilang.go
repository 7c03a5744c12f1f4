package terbilang

import "strings"

var satuan = []string{"", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas"}

// Terbilang converts n to its Indonesian cardinal-number phrase, e.g.
// 1500000 -> "satu juta lima ratus ribu". Zero yields an empty string;
// the caller is expected to append the unit word. A negative n is
// converted as its absolute value.
func Terbilang(n int64) string {
	if n < 0 {
		n = -n
	}
	// zero remainders leave stray spaces between fragments; collapse them
	return strings.Join(strings.Fields(convert(n)), " ")
}

// Rupiah spells out a monetary amount, e.g. 3000000 -> "tiga juta rupiah".
func Rupiah(n int64) string {
	return strings.TrimSpace(Terbilang(n) + " rupiah")
}

// convert recursively decomposes n by magnitude band. Each fragment is
// emitted with a leading space; the exported wrappers normalize the result.
func convert(n int64) string {
	switch {
	case n < 12:
		return " " + satuan[n]
	case n < 20:
		return convert(n-10) + " belas"
	case n < 100:
		return convert(n/10) + " puluh" + convert(n%10)
	case n < 200:
		return " seratus" + convert(n-100)
	case n < 1000:
		return convert(n/100) + " ratus" + convert(n%100)
	case n < 2000:
		return " seribu" + convert(n-1000)
	case n < 1_000_000:
		return convert(n/1000) + " ribu" + convert(n%1000)
	case n < 1_000_000_000:
		return convert(n/1_000_000) + " juta" + convert(n%1_000_000)
	case n < 1_000_000_000_000:
		return convert(n/1_000_000_000) + " milyar" + convert(n%1_000_000_000)
	default:
		return convert(n/1_000_000_000_000) + " trilyun" + convert(n%1_000_000_000_000)
	}
}

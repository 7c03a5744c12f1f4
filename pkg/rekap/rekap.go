// Package rekap computes the dashboard statistics shown on the
// rekapitulasi page from the full SKRD record set.
package rekap

import "time"

// StatusLunas is the stored payment-status value for a settled SKRD.
const StatusLunas = "LUNAS"

// TargetPendapatan is the fixed yearly revenue target (Rp 4 milyar).
const TargetPendapatan int64 = 4_000_000_000

// Baris is the projection of one SKRD row that the statistics need.
type Baris struct {
	Status           bool
	StatusPembayaran string
	Jumlah           int64
	TanggalPelunasan *time.Time
}

// Ringkasan holds the computed statistics.
type Ringkasan struct {
	TotalSKRD    int
	TotalPending int
	TotalTerbit  int
	TotalLunas   int
	PersenLunas  float64
	UangMasuk    int64
	Target       int64
	PersenTarget float64
	// Triwulan[q][m] is the LUNAS total for month m of quarter q,
	// bucketed by TanggalPelunasan.
	Triwulan [4][3]int64
	// MaxChart is the vertical scale of the quarterly chart: 110% of the
	// largest quarterly total, floored so an empty chart still renders.
	MaxChart float64
}

// Hitung recomputes the full summary from scratch; it has no side effects
// and may be called on demand.
func Hitung(rows []Baris, target int64) Ringkasan {
	r := Ringkasan{TotalSKRD: len(rows), Target: target}
	for _, b := range rows {
		if b.Status {
			r.TotalTerbit++
		} else {
			r.TotalPending++
		}
		if b.StatusPembayaran != StatusLunas {
			continue
		}
		r.TotalLunas++
		r.UangMasuk += b.Jumlah
		if b.TanggalPelunasan != nil {
			m := int(b.TanggalPelunasan.Month()) - 1
			r.Triwulan[m/3][m%3] += b.Jumlah
		}
	}
	if r.TotalSKRD > 0 {
		r.PersenLunas = float64(r.TotalLunas) / float64(r.TotalSKRD) * 100
	}
	if target > 0 {
		r.PersenTarget = float64(r.UangMasuk) / float64(target) * 100
	}
	var maxTriwulan int64
	for _, q := range r.Triwulan {
		var total int64
		for _, m := range q {
			total += m
		}
		if total > maxTriwulan {
			maxTriwulan = total
		}
	}
	if maxTriwulan > 0 {
		r.MaxChart = float64(maxTriwulan) * 1.1
	} else {
		r.MaxChart = 10_000_000
	}
	return r
}

package main

import (
	"errors"
	"time"

	"simreda/models"
	"simreda/pkg/nomor"

	"gorm.io/gorm"
)

// nextNomorSurat derives the next nomor surat for now's calendar year by
// scanning the store for the highest-id SKRD whose number carries this
// year's suffix. Read-only: the number is only persisted when the create
// commits, and a concurrent creator can win the race, which surfaces as a
// unique violation handled by the create retry.
func nextNomorSurat(now time.Time) (string, error) {
	var last models.SKRD
	err := db.Where("nomor_surat LIKE ?", "%"+nomor.YearSuffix(now.Year())).
		Order("id desc").
		First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nomor.Next("", now), nil
	}
	if err != nil {
		return "", err
	}
	return nomor.Next(last.NomorSurat, now), nil
}

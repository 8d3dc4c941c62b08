// Command seed fills the configured store with random availability around
// today, including past dates, so the week view and rollover can be tried
// against realistic data.
package main

import (
	"context"
	"log"
	"math/rand/v2"
	"time"

	"keyscal/config"
	timeslotRepo "keyscal/database/repository/timeslot"
	"keyscal/models"
	"keyscal/services/availability"
	"keyscal/services/rollover"
	"keyscal/utils"

	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := timeslotRepo.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	// Simulation parameters.
	daysBack, daysAhead := 10, 14
	markChance := 0.45
	roster := cfg.RosterList()
	hours := availability.Hours(cfg.GridFirstHour, cfg.GridLastHour)
	today := rollover.NewClock(cfg.Location()).Time()

	var slots []models.TimeSlot
	for d := -daysBack; d <= daysAhead; d++ {
		date := today.AddDate(0, 0, d).Format(models.DateLayout)
		for _, user := range roster {
			for _, h := range hours {
				if rand.Float64() >= markChance {
					continue
				}
				slots = append(slots, models.TimeSlot{
					UserID:    user,
					Date:      date,
					StartTime: models.FormatHour(h),
					EndTime:   models.FormatHour(h + 1),
				})
			}
		}
	}

	inserted, err := store.InsertMany(ctx, slots)
	if err != nil {
		log.Fatalf("Failed to insert time slots: %v", err)
	}
	logger.Info("Seeded time slots",
		zap.Int("count", len(inserted)),
		zap.String("from", today.AddDate(0, 0, -daysBack).Format(models.DateLayout)),
		zap.String("to", today.AddDate(0, 0, daysAhead).Format(models.DateLayout)),
		zap.Strings("roster", roster),
	)
}

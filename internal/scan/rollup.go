package scan

import (
	"context"
	"log"
	"time"

	"github.com/menucraft/menucraft/internal/repository"
	"github.com/robfig/cron/v3"
)

// ScheduleRollup registers the nightly job that aggregates the previous
// day's scan events into scan_daily_stats.
func ScheduleRollup(c *cron.Cron, repo *repository.ScanRepository) error {
	_, err := c.AddFunc("15 0 * * *", func() {
		yesterday := time.Now().UTC().AddDate(0, 0, -1)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := repo.RollupDay(ctx, yesterday); err != nil {
			log.Printf("scan rollup for %s failed: %v", yesterday.Format("2006-01-02"), err)
			return
		}

		log.Printf("scan rollup for %s complete", yesterday.Format("2006-01-02"))
	})

	return err
}

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartUsageSummaryScheduler runs the daily usage summary job. The schedule
// is validated at config load, so AddFunc failing here is unexpected.
func StartUsageSummaryScheduler(cfg Config, store *UsageStore, notifier *Notifier) *cron.Cron {
	c := cron.New(cron.WithLocation(cfg.Location))
	_, err := c.AddFunc(cfg.UsageSummarySchedule, func() {
		logUsageSummary(store, notifier, cfg.Location)
	})
	if err != nil {
		log.Printf("Invalid usage_summary_schedule '%s': %v, summary job disabled", cfg.UsageSummarySchedule, err)
		return c
	}
	log.Printf("Usage summary scheduled spec=%q", cfg.UsageSummarySchedule)
	c.Start()
	return c
}

func logUsageSummary(store *UsageStore, notifier *Notifier, loc *time.Location) {
	day := time.Now().In(loc).AddDate(0, 0, -1).Format("2006-01-02")
	usage, err := store.DayUsage(day)
	if err != nil {
		log.Printf("usage summary error: %v", err)
		return
	}
	msg := formatUsageSummary(usage)
	log.Print(msg)
	notifier.PostSummary(msg)
}

func formatUsageSummary(u DailyUsage) string {
	return fmt.Sprintf(
		"Ticket triage summary for %s: %d classified (%d technical, %d operational), %d with external assessment, %d tokens in / %d out",
		u.Day, u.Classifications, u.Technical, u.Operational, u.AssessmentsUsed, u.InputTokens, u.OutputTokens)
}

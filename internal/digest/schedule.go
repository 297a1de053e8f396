package digest

// Schedule is a recurring digest cadence. The job queue that invokes the
// pipeline owns scheduling; these constants only describe the supported
// cadences and their cron shapes.
type Schedule string

const (
	ScheduleDaily  Schedule = "daily"
	ScheduleWeekly Schedule = "weekly"
)

var cronPatterns = map[Schedule]string{
	// every day at 10:30 UTC
	ScheduleDaily: "30 10 * * *",
	// every Sunday at 10:30 UTC
	ScheduleWeekly: "30 10 * * 7",
}

// CronPattern returns the cron expression for a schedule, or empty for an
// unknown cadence.
func CronPattern(schedule Schedule) string {
	return cronPatterns[schedule]
}

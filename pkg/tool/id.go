package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID, used as the per-run id on
// log lines so one export run can be grepped out of aggregated logs.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

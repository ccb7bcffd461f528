package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderStats(stats UserStats) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderStats writes a header row and a single value row.
func (t *CsvStatsRendererImpl) RenderStats(stats UserStats) (string, error) {
	data := [][]string{
		{"level", "currentXp", "nextLevelXp", "progressPercent", "streakDays", "lastActiveDate", "totalTasksCompleted", "totalFocusMinutes"},
		{
			strconv.Itoa(stats.Level),
			strconv.Itoa(stats.CurrentXP),
			strconv.Itoa(stats.NextLevelXP),
			strconv.Itoa(ProgressPercent(stats)),
			strconv.Itoa(stats.StreakDays),
			stats.LastActiveDate.UTC().Format(time.RFC3339),
			strconv.Itoa(stats.TotalTasksCompleted),
			strconv.Itoa(stats.TotalFocusMinutes),
		},
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

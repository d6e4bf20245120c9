package stats

import (
	"time"

	"github.com/govtech/attendance-system/internal/core/domain"
)

// Point is one chart data point: a calendar date and whether the user was
// present. Rendering (bars, pixels) is the consumer's concern.
type Point struct {
	Date    string
	Present bool
}

// Project maps the record set onto the trailing windowDays calendar dates
// ending today. The result is ordered oldest to newest and always has
// exactly windowDays entries.
func Project(records []*domain.Record, now time.Time, windowDays int) []Point {
	set := presentSet(records)
	day := now.UTC()

	points := make([]Point, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		key := domain.DateKey(day.AddDate(0, 0, -i))
		_, present := set[key]
		points = append(points, Point{Date: key, Present: present})
	}
	return points
}

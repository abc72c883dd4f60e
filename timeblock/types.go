package timeblock

import (
	"errors"
	"strings"
	"time"
)

// DefaultWeeks is applied when a block is created or updated without a weeks value.
const DefaultWeeks = 15

type TimeBlock struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Day         string    `json:"day"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	StudentID   int       `json:"studentId"`
	Weeks       int       `json:"weeks"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (tb *TimeBlock) Validate() error {
	if tb.Title == "" {
		return errors.New("title is required")
	}
	if tb.Day == "" {
		return errors.New("day is required")
	}
	if tb.StartTime == "" {
		return errors.New("start time is required")
	}
	if tb.EndTime == "" {
		return errors.New("end time is required")
	}
	if tb.Type == "" {
		return errors.New("type is required")
	}
	if tb.StudentID <= 0 {
		return errors.New("student ID is required")
	}
	return nil
}

func (tb *TimeBlock) Range() TimeRange {
	return TimeRange{Day: tb.Day, Start: tb.StartTime, End: tb.EndTime}
}

// TimeRange is a half-open [Start, End) clock interval on a weekday. Times
// are zero-padded "HH:MM" strings, so lexicographic comparison is time order.
type TimeRange struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overlaps reports whether the two ranges intersect. Ranges on different days
// never overlap, and ranges that only touch at a boundary do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	if r.Day != other.Day {
		return false
	}
	return (other.Start <= r.Start && other.End > r.Start) ||
		(other.Start < r.End && other.End >= r.End) ||
		(other.Start >= r.Start && other.End <= r.End)
}

// ConflictError is returned when a candidate block overlaps existing blocks
// for the same student and day.
type ConflictError struct {
	Conflicts []TimeBlock
}

func (e *ConflictError) Error() string {
	titles := make([]string, len(e.Conflicts))
	for i, tb := range e.Conflicts {
		titles[i] = tb.Title
	}
	return "Time conflict detected with: " + strings.Join(titles, ", ")
}

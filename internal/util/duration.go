package util

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nakachan-ing/task-tracker/internal/model"
)

var (
	ErrInvalidGoal     = errors.New("invalid time goal")
	ErrInvalidDuration = errors.New("invalid duration")
)

const (
	// MaxGoalMinutes is the largest goal that fits in one day.
	MaxGoalMinutes = 24*60 - 1
	MaxGoal        = "23:59:59"

	// maxSeconds is the longest duration time.Duration can hold, in seconds.
	maxSeconds = math.MaxInt64 / int64(time.Second)
)

// "1 day, 2:03:04" / "3 days, 02:03:04" / "2:03:04" / "02:03:04"
var durationPattern = regexp.MustCompile(`^(?:(\d+) days?, )?(\d+):(\d{2}):(\d{2})$`)

// ConvertGoal turns free-text minutes into an HH:MM:SS goal.
// Every non-digit is dropped, so "1h30" is read as 130 minutes.
// Goals are whole minutes and never exceed MaxGoal.
func ConvertGoal(text string) (string, error) {
	if text == "" {
		return model.ZeroTime, nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return "", fmt.Errorf("%w: %q contains no minutes", ErrInvalidGoal, text)
	}

	minutes, err := strconv.Atoi(digits)
	if err != nil {
		// only digits are left, so the number is too large for an int
		return MaxGoal, nil
	}
	if minutes > MaxGoalMinutes {
		return MaxGoal, nil
	}

	return fmt.Sprintf("%02d:%02d:00", minutes/60, minutes%60), nil
}

// FormatDuration renders d as HH:MM:SS, dropping sub-second precision.
// Hours are not wrapped at 24.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// ParseDuration reads an HH:MM:SS string. Unpadded hours and a leading
// "N day(s), " prefix are accepted as well.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	var days int64
	if m[1] != "" {
		v, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		days = v
	}
	hours, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	minutes, _ := strconv.ParseInt(m[3], 10, 64)
	seconds, _ := strconv.ParseInt(m[4], 10, 64)
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}

	if days > maxSeconds/(24*3600) || hours > maxSeconds/3600 {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, s)
	}
	total := days*24*3600 + hours*3600 + minutes*60 + seconds
	if total > maxSeconds {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidDuration, s)
	}
	return time.Duration(total) * time.Second, nil
}

// NormalizeDuration parses s and formats it back, so legacy values are
// written in the canonical form.
func NormalizeDuration(s string) (string, error) {
	d, err := ParseDuration(s)
	if err != nil {
		return "", err
	}
	return FormatDuration(d), nil
}

// Progress reports how far elapsed has come towards goal, in percent.
// A task without a goal has no progress.
func Progress(goal, elapsed time.Duration) float64 {
	g := goal.Truncate(time.Second).Seconds()
	e := elapsed.Truncate(time.Second).Seconds()
	if g <= 0 || e <= 0 {
		return 0
	}
	return min(100, e/g*100)
}

// TaskProgress is Progress for a stored record. Unparseable values count as zero.
func TaskProgress(t model.Task) float64 {
	goal, _ := ParseDuration(t.TimeGoal)
	elapsed, _ := ParseDuration(t.Timer)
	return Progress(goal, elapsed)
}

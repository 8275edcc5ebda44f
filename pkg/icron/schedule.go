package icron

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// maxLookback bounds the search for the previous trigger.
const maxLookback = 366 * 24 * time.Hour

// TriggerInfo describes a cron expression relative to a reference time.
type TriggerInfo struct {
	Expression string
	Next       time.Time
	Last       time.Time

	TimeSinceLast time.Duration
	TimeUntilNext time.Duration
}

// Describe parses a standard 5-field expression (descriptors such as @hourly
// are accepted too) and computes the triggers around ref. Last is zero when no
// trigger happened within a year before ref.
func Describe(cronExpr string, ref time.Time) (*TriggerInfo, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	info := &TriggerInfo{
		Expression: cronExpr,
		Next:       schedule.Next(ref),
	}
	info.TimeUntilNext = info.Next.Sub(ref)

	// walk back in growing steps until a window contains a trigger, then walk
	// forward inside that window to the latest one not after ref
	for step := time.Minute; step <= maxLookback; step *= 2 {
		t := schedule.Next(ref.Add(-step))
		if t.After(ref) {
			continue
		}
		for {
			n := schedule.Next(t)
			if n.After(ref) {
				break
			}
			t = n
		}
		info.Last = t
		info.TimeSinceLast = ref.Sub(t)
		break
	}

	return info, nil
}

func (i *TriggerInfo) String() string {
	if i.Last.IsZero() {
		return fmt.Sprintf("%s: next %s", i.Expression, i.Next.Format(time.DateTime))
	}
	return fmt.Sprintf("%s: last %s, next %s",
		i.Expression, i.Last.Format(time.DateTime), i.Next.Format(time.DateTime))
}

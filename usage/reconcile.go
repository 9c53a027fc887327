package usage

import (
	"time"

	"github.com/scribeline/scribeline/agent"
)

/* Result is the outcome of computing usage from one bot's event stream.
 * Uses value semantics as it represents data, not behavior.
 */
type Result struct {
	Start           *time.Time
	End             *time.Time
	DurationSeconds int64
	BillableMinutes int
	Status          RecordStatus
}

/* Compute derives a recording interval and billable minutes from a bot's
 * status-change stream. Pure: same events and status always yield the same
 * result, which is what makes reconciliation idempotent.
 *
 * The interval runs from the first "recording in progress" event to the
 * first subsequent recording-end event. If either marker is missing there
 * is no billable usage yet: the result is "failed" when the bot's own
 * status is a failure terminal, otherwise "active".
 *
 * Minutes round up: a partial minute bills as a full minute. Malformed or
 * zero-duration streams produce zero, never negative values.
 */
func Compute(events []agent.StatusChange, current agent.Status) Result {
	events = Normalize(events)

	var start, end *time.Time
	for _, e := range events {
		if start == nil {
			if e.Code == agent.RecordingStart {
				t := e.CreatedAt
				start = &t
			}
			continue
		}
		if e.Code.IsRecordingEnd() {
			t := e.CreatedAt
			end = &t
			break
		}
	}

	if start == nil || end == nil {
		status := RecordActive
		if current.IsFailed() {
			status = RecordFailed
		}
		return Result{Start: start, Status: status}
	}

	duration := int64(end.Sub(*start) / time.Second)
	if duration < 0 {
		duration = 0
	}

	return Result{
		Start:           start,
		End:             end,
		DurationSeconds: duration,
		BillableMinutes: int((duration + 59) / 60),
		Status:          RecordCompleted,
	}
}

// MinuteSeconds returns the seconds recorded in each billed minute of the
// interval: 60 for every full minute, the remainder for the last one.
func (r Result) MinuteSeconds() []int {
	seconds := make([]int, 0, r.BillableMinutes)
	for i := 0; i < r.BillableMinutes; i++ {
		s := r.DurationSeconds - int64(60*i)
		if s > 60 {
			s = 60
		}
		seconds = append(seconds, int(s))
	}
	return seconds
}

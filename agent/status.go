package agent

/* Status represents a recording agent's lifecycle status code as reported
 * by the third-party agent API. The sets below are explicit so that new
 * agent status codes are a configuration change, not string matching
 * scattered through the codebase.
 */
type Status string

const (
	StatusReady              Status = "ready"
	StatusJoiningCall        Status = "joining_call"
	StatusInWaitingRoom      Status = "in_waiting_room"
	StatusInCallNotRecording Status = "in_call_not_recording"
	StatusInCallRecording    Status = "in_call_recording"
	StatusCallEnded          Status = "call_ended"
	StatusRecordingDone      Status = "recording_done"
	StatusDone               Status = "done"
	StatusError              Status = "error"
	StatusFatal              Status = "fatal"
)

// RecordingStart is the marker that billable recording has begun.
const RecordingStart = StatusInCallRecording

// recordingEnd are the markers that close a recording interval.
var recordingEnd = map[Status]bool{
	StatusCallEnded:     true,
	StatusRecordingDone: true,
	StatusDone:          true,
}

// terminal are the statuses after which the agent will emit no further events.
var terminal = map[Status]bool{
	StatusDone:  true,
	StatusError: true,
	StatusFatal: true,
}

// failed are the terminal statuses that indicate the agent never produced a
// usable recording.
var failed = map[Status]bool{
	StatusError: true,
	StatusFatal: true,
}

// IsRecordingEnd reports whether the status closes a recording interval.
func (s Status) IsRecordingEnd() bool {
	return recordingEnd[s]
}

// IsTerminal reports whether the agent has reached a final state.
func (s Status) IsTerminal() bool {
	return terminal[s]
}

// IsFailed reports whether the agent ended in a failure state.
func (s Status) IsFailed() bool {
	return failed[s]
}

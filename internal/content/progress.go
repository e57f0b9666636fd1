package content

import "math"

// LessonProgress is the tracked state for one lesson within a session.
type LessonProgress struct {
	Completed    bool    `json:"completed"`
	VideoSeconds float64 `json:"video_seconds,omitempty"`
	QuizScore    *int    `json:"quiz_score,omitempty"`
}

// Tracker records per-lesson completion and resumption state for a viewing
// session. Completion is monotonic: once a lesson is completed no operation
// resets it.
type Tracker struct {
	entries map[string]LessonProgress
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make(map[string]LessonProgress)}
}

// Restore seeds the tracker from previously persisted progress. Existing
// completion flags are never downgraded.
func (t *Tracker) Restore(entries map[string]LessonProgress) {
	for id, entry := range entries {
		current := t.entries[id]
		if current.Completed {
			entry.Completed = true
		}
		if entry.QuizScore == nil {
			entry.QuizScore = current.QuizScore
		}
		t.entries[id] = entry
	}
}

// MarkCompleted idempotently flags the lesson as completed, preserving any
// recorded playback position or quiz score.
func (t *Tracker) MarkCompleted(lessonID string) {
	entry := t.entries[lessonID]
	entry.Completed = true
	t.entries[lessonID] = entry
}

// RecordVideoTime overwrites the playback position. It does not imply
// completion; that is driven by the end-of-media event.
func (t *Tracker) RecordVideoTime(lessonID string, seconds float64) {
	entry := t.entries[lessonID]
	entry.VideoSeconds = seconds
	t.entries[lessonID] = entry
}

// RecordQuizScore stores the quiz score and marks the lesson completed in the
// same step; submitting a quiz finishes the lesson regardless of score.
func (t *Tracker) RecordQuizScore(lessonID string, percent int) {
	entry := t.entries[lessonID]
	entry.QuizScore = &percent
	entry.Completed = true
	t.entries[lessonID] = entry
}

// Lesson returns the tracked state for a lesson; the zero value if untouched.
func (t *Tracker) Lesson(lessonID string) LessonProgress {
	return t.entries[lessonID]
}

// CompletedCount returns how many lessons are flagged completed.
func (t *Tracker) CompletedCount() int {
	count := 0
	for _, entry := range t.entries {
		if entry.Completed {
			count++
		}
	}
	return count
}

// CompletionPercent derives the aggregate completion percentage over the
// given lesson total. A zero-lesson course reports zero.
func (t *Tracker) CompletionPercent(totalLessons int) int {
	if totalLessons <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.CompletedCount()) / float64(totalLessons)))
}

// Snapshot copies the tracked entries for persistence.
func (t *Tracker) Snapshot() map[string]LessonProgress {
	out := make(map[string]LessonProgress, len(t.entries))
	for id, entry := range t.entries {
		out[id] = entry
	}
	return out
}

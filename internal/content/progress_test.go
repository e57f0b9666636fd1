package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrackerCompletionIsMonotonic(t *testing.T) {
	tracker := NewTracker()

	tracker.MarkCompleted("video:1")
	require.True(t, tracker.Lesson("video:1").Completed)

	// Further updates never reset the flag.
	tracker.RecordVideoTime("video:1", 42.5)
	require.True(t, tracker.Lesson("video:1").Completed)
	require.Equal(t, 42.5, tracker.Lesson("video:1").VideoSeconds)

	tracker.MarkCompleted("video:1")
	require.True(t, tracker.Lesson("video:1").Completed)
}

func TestTrackerVideoTimeDoesNotComplete(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordVideoTime("video:2", 120)

	entry := tracker.Lesson("video:2")
	require.False(t, entry.Completed)
	require.Equal(t, float64(120), entry.VideoSeconds)
}

func TestTrackerQuizScoreCompletesAtomically(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordQuizScore("quiz:1", 50)

	entry := tracker.Lesson("quiz:1")
	require.True(t, entry.Completed)
	require.NotNil(t, entry.QuizScore)
	require.Equal(t, 50, *entry.QuizScore)
}

func TestTrackerCompletionPercent(t *testing.T) {
	tracker := NewTracker()
	require.Equal(t, 0, tracker.CompletionPercent(0))

	tracker.MarkCompleted("a")
	require.Equal(t, 25, tracker.CompletionPercent(4))

	tracker.MarkCompleted("b")
	tracker.MarkCompleted("c")
	require.Equal(t, 75, tracker.CompletionPercent(4))

	// Rounding: 1 of 3 completed.
	fresh := NewTracker()
	fresh.MarkCompleted("x")
	require.Equal(t, 33, fresh.CompletionPercent(3))
}

func TestTrackerRestoreNeverDowngradesCompletion(t *testing.T) {
	tracker := NewTracker()
	tracker.MarkCompleted("pdf:1")

	tracker.Restore(map[string]LessonProgress{
		"pdf:1":   {Completed: false, VideoSeconds: 0},
		"video:2": {Completed: true, VideoSeconds: 10},
	})

	require.True(t, tracker.Lesson("pdf:1").Completed)
	require.True(t, tracker.Lesson("video:2").Completed)
	require.Equal(t, float64(10), tracker.Lesson("video:2").VideoSeconds)
}

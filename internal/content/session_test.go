package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleLessons() []Lesson {
	return []Lesson{
		VideoLesson{LessonMeta: LessonMeta{ID: "video:1", Title: "Intro", Order: 1}, URL: "https://cdn/intro.mp4"},
		PDFLesson{LessonMeta: LessonMeta{ID: "pdf:2", Title: "Notes", Order: 2}, URL: "https://cdn/notes.pdf"},
		QuizLesson{
			LessonMeta: LessonMeta{ID: "quiz:3", Title: "Checkpoint", Order: 3},
			Questions: []QuizQuestion{
				{Text: "q1", Options: []QuizOption{{ID: "0", Text: "a", IsCorrect: true}, {ID: "1", Text: "b"}}},
				{Text: "q2", Options: []QuizOption{{ID: "0", Text: "a"}, {ID: "1", Text: "b", IsCorrect: true}}},
			},
		},
	}
}

func TestSessionNavigationBoundaries(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())

	session.Previous()
	require.Equal(t, 0, session.Index())

	session.Next()
	session.Next()
	require.Equal(t, 2, session.Index())

	session.Next()
	require.Equal(t, 2, session.Index())
}

func TestSessionJumpToResetsDocumentPage(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())

	require.True(t, session.JumpTo("pdf:2"))
	doc := session.Document()
	require.NotNil(t, doc)
	doc.NextPage()
	doc.NextPage()
	require.Equal(t, 3, doc.Page)

	session.JumpTo("video:1")
	session.JumpTo("pdf:2")
	require.Equal(t, 1, session.Document().Page)
}

func TestSessionJumpToUnknownLesson(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())
	require.False(t, session.JumpTo("video:999"))
	require.Equal(t, 0, session.Index())
}

func TestSessionSidebarClosesOnNavigation(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())
	session.OpenSidebar()
	require.True(t, session.SidebarOpen())

	session.Next()
	require.False(t, session.SidebarOpen())
}

func TestSessionStaleVideoEventsDropped(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())
	staleRev := session.Rev()

	session.Next() // learner moved on before the event landed

	require.False(t, session.HandleVideoTime(staleRev, "video:1", 30))
	require.False(t, session.HandleVideoEnded(staleRev, "video:1"))
	require.False(t, session.Tracker().Lesson("video:1").Completed)

	// An event for a lesson that is not active is dropped even with a
	// current revision.
	require.False(t, session.HandleVideoEnded(session.Rev(), "video:1"))
}

func TestSessionVideoPlayback(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())

	player := session.Player()
	require.NotNil(t, player)
	player.SetDuration(300)

	require.True(t, session.HandleVideoTime(session.Rev(), "video:1", 42))
	require.Equal(t, float64(42), session.Tracker().Lesson("video:1").VideoSeconds)
	require.False(t, session.Tracker().Lesson("video:1").Completed)

	require.True(t, session.HandleVideoEnded(session.Rev(), "video:1"))
	require.True(t, session.Tracker().Lesson("video:1").Completed)
	require.False(t, session.Player().Playing)
}

func TestSessionPlayerClamps(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())
	player := session.Player()
	player.SetDuration(100)

	player.Seek(250)
	require.Equal(t, float64(100), player.Current)

	player.Seek(-5)
	require.Equal(t, float64(0), player.Current)

	player.Seek(4)
	player.Rewind10()
	require.Equal(t, float64(0), player.Current)

	player.SetVolume(1.5)
	require.Equal(t, float64(1), player.Volume)
	require.False(t, player.Muted)

	player.SetVolume(0)
	require.True(t, player.Muted)

	player.SetVolume(0.4)
	require.False(t, player.Muted)
}

func TestSessionQuizOnNonQuizLesson(t *testing.T) {
	session := NewSession("Course", "Desc", sampleLessons())

	_, err := session.Attempt()
	require.ErrorIs(t, err, ErrNotQuiz)

	_, _, err = session.SubmitQuiz()
	require.ErrorIs(t, err, ErrNotQuiz)
}

// Mirrors the end-to-end consumption scenario: finish the video, then answer
// the two-question quiz half right.
func TestSessionEndToEnd(t *testing.T) {
	lessons := []Lesson{
		VideoLesson{LessonMeta: LessonMeta{ID: "video:1", Title: "Intro", Order: 1}},
		QuizLesson{
			LessonMeta: LessonMeta{ID: "quiz:2", Title: "Final", Order: 2},
			Questions: []QuizQuestion{
				{Text: "q1", Options: []QuizOption{{ID: "0", Text: "a", IsCorrect: true}, {ID: "1", Text: "b"}}},
				{Text: "q2", Options: []QuizOption{{ID: "0", Text: "a"}, {ID: "1", Text: "b", IsCorrect: true}}},
			},
		},
	}
	session := NewSession("Course", "Desc", lessons)

	require.True(t, session.HandleVideoEnded(session.Rev(), "video:1"))
	require.True(t, session.Tracker().Lesson("video:1").Completed)

	session.Next()
	attempt, err := session.Attempt()
	require.NoError(t, err)

	attempt.SelectAnswer(0, "0") // correct
	require.True(t, attempt.Next())
	attempt.SelectAnswer(1, "0") // incorrect

	result, ok, err := session.SubmitQuiz()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, result.Total)
	require.Equal(t, 1, result.Correct)
	require.Equal(t, 50, result.Percent)

	entry := session.Tracker().Lesson("quiz:2")
	require.True(t, entry.Completed)
	require.Equal(t, 50, *entry.QuizScore)

	require.Equal(t, 100, session.CompletionPercent())
	require.True(t, session.ResultVisible())

	// Retrying clears the visible result but completion is monotonic.
	require.NoError(t, session.RetryQuiz())
	require.False(t, session.ResultVisible())
	require.True(t, session.Tracker().Lesson("quiz:2").Completed)
}

func TestSessionEmptyCourse(t *testing.T) {
	session := NewSession("Course", "Desc", nil)

	_, ok := session.Current()
	require.False(t, ok)
	require.Equal(t, 0, session.CompletionPercent())

	session.Next()
	session.Previous()
	require.Equal(t, 0, session.Index())
	require.Nil(t, session.Player())
	require.Nil(t, session.Document())
}

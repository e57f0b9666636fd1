package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func twoOptionQuiz(questions int, correctIndex int) QuizLesson {
	built := make([]QuizQuestion, 0, questions)
	for i := 0; i < questions; i++ {
		built = append(built, QuizQuestion{
			Text: "question",
			Options: []QuizOption{
				{ID: "0", Text: "first", IsCorrect: correctIndex == 0},
				{ID: "1", Text: "second", IsCorrect: correctIndex == 1},
			},
		})
	}
	return QuizLesson{LessonMeta: LessonMeta{ID: "quiz:1", Title: "Quiz"}, Questions: built}
}

func TestAttemptScoresAllCorrect(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(3, 0))

	for i := 0; i < 3; i++ {
		attempt.SelectAnswer(i, "0")
	}

	result, ok := attempt.Submit()
	require.True(t, ok)
	require.Equal(t, 3, result.Total)
	require.Equal(t, 3, result.Correct)
	require.Equal(t, 100, result.Percent)
}

func TestAttemptScoresNoneCorrect(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(2, 0))
	attempt.SelectAnswer(0, "1")
	attempt.SelectAnswer(1, "1")

	result, ok := attempt.Submit()
	require.True(t, ok)
	require.Equal(t, 0, result.Correct)
	require.Equal(t, 0, result.Percent)
}

func TestAttemptScoresPartial(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(4, 0))
	attempt.SelectAnswer(0, "0")
	attempt.SelectAnswer(1, "0")
	attempt.SelectAnswer(2, "0")
	attempt.SelectAnswer(3, "1")

	result, ok := attempt.Submit()
	require.True(t, ok)
	require.Equal(t, 3, result.Correct)
	require.Equal(t, 75, result.Percent)
}

func TestAttemptUnansweredScoresIncorrect(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(2, 0))
	attempt.SelectAnswer(0, "0")
	attempt.GoTo(1)
	attempt.SelectAnswer(1, "1")
	attempt.GoTo(0)

	// Clear nothing; question 1 answered incorrectly, question 0 correct.
	result, ok := attempt.Submit()
	require.True(t, ok)
	require.Equal(t, 1, result.Correct)
	require.Equal(t, "0", result.Details[0].SelectedOptionID)
	require.False(t, result.Details[1].IsCorrect)
}

func TestAttemptSubmitBlockedWithoutCurrentAnswer(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(2, 0))

	require.False(t, attempt.CanSubmit())
	_, ok := attempt.Submit()
	require.False(t, ok)

	// Next is equally blocked until the current question has an answer.
	require.False(t, attempt.Next())
	attempt.SelectAnswer(0, "1")
	require.True(t, attempt.Next())
	require.Equal(t, 1, attempt.Step())
}

func TestAttemptGoToClamps(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(3, 0))

	attempt.GoTo(-5)
	require.Equal(t, 0, attempt.Step())

	attempt.GoTo(99)
	require.Equal(t, 2, attempt.Step())
}

func TestAttemptRetryIsIdempotent(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(3, 1))
	answers := []string{"1", "0", "1"}
	for i, id := range answers {
		attempt.SelectAnswer(i, id)
	}

	first, ok := attempt.Submit()
	require.True(t, ok)

	attempt.Retry()
	require.Equal(t, 0, attempt.Step())
	require.Equal(t, 0, attempt.AnsweredCount())
	_, hasResult := attempt.Result()
	require.False(t, hasResult)

	for i, id := range answers {
		attempt.SelectAnswer(i, id)
	}
	second, ok := attempt.Submit()
	require.True(t, ok)
	require.Equal(t, first, second)
}

func TestAttemptZeroQuestions(t *testing.T) {
	attempt := NewAttempt(QuizLesson{LessonMeta: LessonMeta{ID: "quiz:9"}})

	require.Equal(t, 0, attempt.Total())
	require.False(t, attempt.CanSubmit())
	_, ok := attempt.Submit()
	require.False(t, ok)

	attempt.GoTo(3)
	require.Equal(t, 0, attempt.Step())
}

func TestAttemptFirstCorrectOptionWinsOnMalformedData(t *testing.T) {
	quiz := QuizLesson{
		LessonMeta: LessonMeta{ID: "quiz:2"},
		Questions: []QuizQuestion{
			{
				Text: "duplicated correct answers",
				Options: []QuizOption{
					{ID: "0", Text: "yes", IsCorrect: true},
					{ID: "1", Text: "yes", IsCorrect: true},
					{ID: "2", Text: "no"},
				},
			},
		},
	}

	attempt := NewAttempt(quiz)
	attempt.SelectAnswer(0, "1")

	result, ok := attempt.Submit()
	require.True(t, ok)
	// The first correct option is authoritative, so selecting the second
	// marked-correct option scores as incorrect.
	require.Equal(t, "0", result.Details[0].CorrectOptionID)
	require.False(t, result.Details[0].IsCorrect)
}

func TestAttemptIgnoresUnknownOption(t *testing.T) {
	attempt := NewAttempt(twoOptionQuiz(1, 0))
	attempt.SelectAnswer(0, "nope")
	require.False(t, attempt.CanSubmit())
}

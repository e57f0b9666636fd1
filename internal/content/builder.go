package content

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/crest-online/crest-api/internal/models"
)

// BuildLessons flattens a course's video, pdf and quiz collections into a
// single sequence sorted ascending by order. The sort is stable, so lessons
// with equal order keep their source-group order: videos, then pdfs, then
// quizzes, each in authored sequence. Lesson IDs are kind-prefixed row IDs
// and therefore unique within the course.
func BuildLessons(course models.Course) []Lesson {
	lessons := make([]Lesson, 0, len(course.Videos)+len(course.PDFs)+len(course.Quizzes))

	for _, v := range course.Videos {
		lessons = append(lessons, VideoLesson{
			LessonMeta: LessonMeta{
				ID:    fmt.Sprintf("video:%d", v.ID),
				Title: v.Title,
				Order: v.Order,
			},
			URL: v.VideoURL,
		})
	}

	for _, p := range course.PDFs {
		lessons = append(lessons, PDFLesson{
			LessonMeta: LessonMeta{
				ID:    fmt.Sprintf("pdf:%d", p.ID),
				Title: p.Title,
				Order: p.Order,
			},
			URL: p.PDFURL,
		})
	}

	for _, q := range course.Quizzes {
		lessons = append(lessons, QuizLesson{
			LessonMeta: LessonMeta{
				ID:    fmt.Sprintf("quiz:%d", q.ID),
				Title: q.Title,
				Order: q.Order,
			},
			Questions: buildQuestions(q.Questions),
		})
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].Meta().Order < lessons[j].Meta().Order
	})

	return lessons
}

// buildQuestions assigns positional option IDs and marks correctness by
// matching the authored correct-answer text, mirroring how the source data
// is authored (plain option strings plus one correct text).
func buildQuestions(src []models.QuizQuestionSource) []QuizQuestion {
	questions := make([]QuizQuestion, 0, len(src))
	for _, q := range src {
		options := make([]QuizOption, 0, len(q.Options))
		for i, text := range q.Options {
			options = append(options, QuizOption{
				ID:        strconv.Itoa(i),
				Text:      text,
				IsCorrect: text == q.CorrectAnswer,
			})
		}
		questions = append(questions, QuizQuestion{Text: q.Question, Options: options})
	}
	return questions
}

// Package content implements the course-content consumption engine: it
// flattens a course's heterogeneous assets into one ordered lesson sequence
// and drives per-learner session state (navigation, playback, quizzes,
// completion) over it.
package content

// LessonKind discriminates the lesson variants.
type LessonKind string

// Lesson kinds.
const (
	KindVideo LessonKind = "video"
	KindPDF   LessonKind = "pdf"
	KindQuiz  LessonKind = "quiz"
)

// LessonMeta carries the fields shared by every lesson variant.
type LessonMeta struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
}

// Lesson is a closed sum over the three lesson variants. Consumers dispatch
// with a type switch over VideoLesson, PDFLesson and QuizLesson.
type Lesson interface {
	Meta() LessonMeta
	Kind() LessonKind
	isLesson()
}

// VideoLesson is a playable video asset.
type VideoLesson struct {
	LessonMeta
	URL string `json:"url"`
}

// PDFLesson is a viewable document asset.
type PDFLesson struct {
	LessonMeta
	URL string `json:"url"`
}

// QuizLesson is a multi-question single-choice quiz.
type QuizLesson struct {
	LessonMeta
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion is one question with its answer options.
type QuizQuestion struct {
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
}

// QuizOption is a single selectable answer.
type QuizOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"-"`
}

func (l VideoLesson) Meta() LessonMeta { return l.LessonMeta }
func (l PDFLesson) Meta() LessonMeta   { return l.LessonMeta }
func (l QuizLesson) Meta() LessonMeta  { return l.LessonMeta }

func (VideoLesson) Kind() LessonKind { return KindVideo }
func (PDFLesson) Kind() LessonKind   { return KindPDF }
func (QuizLesson) Kind() LessonKind  { return KindQuiz }

func (VideoLesson) isLesson() {}
func (PDFLesson) isLesson()   {}
func (QuizLesson) isLesson()  {}

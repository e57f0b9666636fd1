package dto

import "time"

// CourseCreateRequest is the admin payload for authoring a course with its
// nested assets.
type CourseCreateRequest struct {
	Title       string               `json:"title" validate:"required,min=3,max=255"`
	Description string               `json:"description"`
	TeacherID   *uint                `json:"teacher_id"`
	Education   string               `json:"education"`
	Grade       string               `json:"grade"`
	Price       float64              `json:"price" validate:"gte=0"`
	IsPublished bool                 `json:"is_published"`
	ImageURL    string               `json:"image_url"`
	Videos      []CourseVideoInput   `json:"videos" validate:"dive"`
	PDFs        []CoursePDFInput     `json:"pdfs" validate:"dive"`
	Quizzes     []CourseQuizInput    `json:"quizzes" validate:"dive"`
}

// CourseVideoInput is one authored video entry.
type CourseVideoInput struct {
	Title    string `json:"title" validate:"required"`
	Order    int    `json:"order"`
	VideoURL string `json:"video_url" validate:"required,url"`
}

// CoursePDFInput is one authored document entry.
type CoursePDFInput struct {
	Title  string `json:"title" validate:"required"`
	Order  int    `json:"order"`
	PDFURL string `json:"pdf_url" validate:"required,url"`
}

// CourseQuizInput is one authored quiz with its questions.
type CourseQuizInput struct {
	Title     string              `json:"title" validate:"required"`
	Order     int                 `json:"order"`
	Questions []QuizQuestionInput `json:"questions" validate:"dive"`
}

// QuizQuestionInput is one authored question: option texts plus the correct
// answer text.
type QuizQuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"min=2"`
	CorrectAnswer string   `json:"correctAnswer" validate:"required"`
}

// CourseListRequest narrows the catalogue listing. IncludeUnpublished is set
// only for admin callers.
type CourseListRequest struct {
	Search             string `json:"search"`
	Grade              string `json:"grade"`
	Education          string `json:"education"`
	IncludeUnpublished bool   `json:"-"`
}

// CourseSummaryResponse is the catalogue view of a course.
type CourseSummaryResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   *uint     `json:"teacher_id"`
	Education   string    `json:"education"`
	Grade       string    `json:"grade"`
	Price       float64   `json:"price"`
	IsPublished bool      `json:"is_published"`
	ImageURL    string    `json:"image_url"`
	VideoCount  int       `json:"video_count"`
	PDFCount    int       `json:"pdf_count"`
	QuizCount   int       `json:"quiz_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseContentResponse is the enrollment-gated content payload: the flat
// ordered lesson sequence. Quiz options never disclose correctness here;
// scoring happens server-side in the session.
type CourseContentResponse struct {
	CourseID    uint            `json:"course_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Lessons     []LessonPayload `json:"lessons"`
}

// LessonPayload is the wire shape of one lesson in the flattened sequence.
type LessonPayload struct {
	ID        string                `json:"id"`
	Type      string                `json:"type"`
	Title     string                `json:"title"`
	Order     int                   `json:"order"`
	URL       string                `json:"url,omitempty"`
	Questions []QuizQuestionPayload `json:"questions,omitempty"`
}

// QuizQuestionPayload is the wire shape of a quiz question.
type QuizQuestionPayload struct {
	Text    string              `json:"text"`
	Options []QuizOptionPayload `json:"options"`
}

// QuizOptionPayload is a selectable answer without its correctness bit.
type QuizOptionPayload struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

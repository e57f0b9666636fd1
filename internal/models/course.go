package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is the admin-authored course aggregate. Videos, PDFs and quizzes are
// independent collections; the content pipeline flattens them into one lesson
// sequence at read time.
type Course struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	TeacherID   *uint  `gorm:"index" json:"teacher_id"`
	Education   string `gorm:"size:64" json:"education"`
	Grade       string `gorm:"size:64" json:"grade"`
	Price       float64
	IsPublished bool         `json:"is_published"`
	ImageURL    string       `gorm:"size:512" json:"image_url"`
	Videos      []CourseVideo `gorm:"constraint:OnDelete:CASCADE" json:"videos"`
	PDFs        []CoursePDF   `gorm:"constraint:OnDelete:CASCADE" json:"pdfs"`
	Quizzes     []CourseQuiz  `gorm:"constraint:OnDelete:CASCADE" json:"quizzes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CourseVideo is a single video asset within a course.
type CourseVideo struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"index;not null" json:"course_id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"column:sort_order" json:"order"`
	VideoURL string `gorm:"size:512" json:"video_url"`
}

// CoursePDF is a single document asset within a course.
type CoursePDF struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"index;not null" json:"course_id"`
	Title    string `gorm:"size:255;not null" json:"title"`
	Order    int    `gorm:"column:sort_order" json:"order"`
	PDFURL   string `gorm:"size:512" json:"pdf_url"`
}

// CourseQuiz is a quiz within a course. Questions are stored as a JSON column
// and hydrated into Questions on load.
type CourseQuiz struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CourseID     uint           `gorm:"index;not null" json:"course_id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Order        int            `gorm:"column:sort_order" json:"order"`
	QuestionsRaw datatypes.JSON `gorm:"column:questions" json:"-"`
	Questions    []QuizQuestionSource `gorm:"-" json:"questions"`
}

// QuizQuestionSource is the authored shape of a quiz question: plain option
// texts plus the correct answer text. Option identity is assigned downstream.
type QuizQuestionSource struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// BeforeSave serialises authored questions into the JSON column.
func (q *CourseQuiz) BeforeSave(tx *gorm.DB) error {
	if q.Questions == nil {
		q.Questions = []QuizQuestionSource{}
	}
	raw, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	q.QuestionsRaw = datatypes.JSON(raw)
	return nil
}

// AfterFind hydrates authored questions from the JSON column.
func (q *CourseQuiz) AfterFind(tx *gorm.DB) error {
	if len(q.QuestionsRaw) == 0 {
		q.Questions = []QuizQuestionSource{}
		return nil
	}
	return json.Unmarshal(q.QuestionsRaw, &q.Questions)
}

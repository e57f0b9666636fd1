package dto

// SessionState is the full client-facing snapshot of a content session,
// returned after every session operation so the UI renders from one shape.
type SessionState struct {
	CourseID          uint                      `json:"course_id"`
	CourseTitle       string                    `json:"course_title"`
	Rev               uint64                    `json:"rev"`
	LessonIndex       int                       `json:"lesson_index"`
	TotalLessons      int                       `json:"total_lessons"`
	CurrentLessonID   string                    `json:"current_lesson_id,omitempty"`
	CurrentLessonType string                    `json:"current_lesson_type,omitempty"`
	CompletionPercent int                       `json:"completion_percent"`
	Progress          map[string]LessonProgress `json:"progress"`
	Player            *PlayerState              `json:"player,omitempty"`
	Document          *DocumentState            `json:"document,omitempty"`
	Quiz              *QuizState                `json:"quiz,omitempty"`
}

// LessonProgress mirrors the tracked per-lesson state on the wire.
type LessonProgress struct {
	Completed    bool    `json:"completed"`
	VideoSeconds float64 `json:"video_seconds,omitempty"`
	QuizScore    *int    `json:"quiz_score,omitempty"`
}

// PlayerState is the transport state of the active video lesson.
type PlayerState struct {
	Playing    bool    `json:"playing"`
	Muted      bool    `json:"muted"`
	Fullscreen bool    `json:"fullscreen"`
	Volume     float64 `json:"volume"`
	Current    float64 `json:"current"`
	Duration   float64 `json:"duration"`
}

// DocumentState is the page position of the active document lesson.
type DocumentState struct {
	Page int `json:"page"`
}

// QuizState is the attempt view of the active quiz lesson.
type QuizState struct {
	Step          int         `json:"step"`
	Total         int         `json:"total"`
	AnsweredCount int         `json:"answered_count"`
	CanSubmit     bool        `json:"can_submit"`
	ResultVisible bool        `json:"result_visible"`
	Result        *QuizResult `json:"result,omitempty"`
}

// QuizResult is the scored outcome disclosed after submission.
type QuizResult struct {
	Total   int              `json:"total"`
	Correct int              `json:"correct"`
	Percent int              `json:"percent"`
	Details []QuestionDetail `json:"details"`
}

// QuestionDetail is the per-question review row, correct answer disclosed.
type QuestionDetail struct {
	QuestionText     string              `json:"question_text"`
	SelectedOptionID string              `json:"selected_option_id,omitempty"`
	CorrectOptionID  string              `json:"correct_option_id"`
	IsCorrect        bool                `json:"is_correct"`
	Options          []QuizOptionPayload `json:"options"`
}

// SessionNavigateRequest moves the session position.
type SessionNavigateRequest struct {
	Direction string `json:"direction" validate:"omitempty,oneof=next previous"`
	LessonID  string `json:"lesson_id"`
}

// VideoEventRequest carries a playback event stamped with the revision it
// was observed under so stale events can be dropped.
type VideoEventRequest struct {
	Rev      uint64  `json:"rev" validate:"required"`
	LessonID string  `json:"lesson_id" validate:"required"`
	Seconds  float64 `json:"seconds"`
}

// PlayerControlRequest drives the video transport controls.
type PlayerControlRequest struct {
	Action  string  `json:"action" validate:"required,oneof=toggle_play toggle_mute toggle_fullscreen set_volume seek rewind set_duration"`
	Value   float64 `json:"value"`
}

// DocumentPageRequest drives document page navigation.
type DocumentPageRequest struct {
	Action string `json:"action" validate:"required,oneof=next previous"`
}

// QuizAnswerRequest records a selected option.
type QuizAnswerRequest struct {
	QuestionIndex int    `json:"question_index" validate:"gte=0"`
	OptionID      string `json:"option_id" validate:"required"`
}

// QuizNavigateRequest moves within the quiz attempt.
type QuizNavigateRequest struct {
	Action string `json:"action" validate:"required,oneof=next back goto"`
	Index  int    `json:"index"`
}

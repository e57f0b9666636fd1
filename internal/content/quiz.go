package content

import "math"

// QuizResult is the scored outcome of one quiz attempt. It is recomputed in
// full on every submission; a retry supersedes rather than merges.
type QuizResult struct {
	Total   int              `json:"total"`
	Correct int              `json:"correct"`
	Percent int              `json:"percent"`
	Details []QuestionDetail `json:"details"`
}

// QuestionDetail discloses, per question, what was selected and what was
// correct. SelectedOptionID is empty for an unanswered question.
type QuestionDetail struct {
	QuestionText     string       `json:"question_text"`
	SelectedOptionID string       `json:"selected_option_id,omitempty"`
	CorrectOptionID  string       `json:"correct_option_id"`
	IsCorrect        bool         `json:"is_correct"`
	Options          []QuizOption `json:"options"`
}

// Attempt runs a quiz from in-progress to submitted. Advancing past or
// submitting at a question is refused while that question has no selected
// answer; the refusal is a no-op, not an error.
type Attempt struct {
	questions []QuizQuestion
	answers   map[int]string
	step      int
	result    *QuizResult
}

// NewAttempt starts a fresh attempt at question zero.
func NewAttempt(lesson QuizLesson) *Attempt {
	return &Attempt{
		questions: lesson.Questions,
		answers:   make(map[int]string),
	}
}

// Total returns the question count.
func (a *Attempt) Total() int { return len(a.questions) }

// Step returns the index of the current question.
func (a *Attempt) Step() int { return a.step }

// Answered reports the recorded option for a question, if any.
func (a *Attempt) Answered(index int) (string, bool) {
	id, ok := a.answers[index]
	return id, ok
}

// AnsweredCount returns how many questions have a recorded answer.
func (a *Attempt) AnsweredCount() int { return len(a.answers) }

// SelectAnswer records or overwrites the single selected option for a
// question. It does not advance. Unknown indexes and option IDs are ignored.
func (a *Attempt) SelectAnswer(index int, optionID string) {
	if index < 0 || index >= len(a.questions) {
		return
	}
	for _, opt := range a.questions[index].Options {
		if opt.ID == optionID {
			a.answers[index] = optionID
			return
		}
	}
}

// GoTo jumps to an arbitrary question for review or edit, clamped to the
// valid range.
func (a *Attempt) GoTo(index int) {
	if len(a.questions) == 0 {
		a.step = 0
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(a.questions)-1 {
		index = len(a.questions) - 1
	}
	a.step = index
}

// Next advances to the following question. Blocked while the current
// question is unanswered or already at the last question.
func (a *Attempt) Next() bool {
	if _, ok := a.answers[a.step]; !ok {
		return false
	}
	if a.step >= len(a.questions)-1 {
		return false
	}
	a.step++
	return true
}

// Back steps to the previous question; a no-op at question zero.
func (a *Attempt) Back() {
	if a.step > 0 {
		a.step--
	}
}

// CanSubmit reports whether submission is currently offered: the quiz has
// questions and the current question has a selected answer.
func (a *Attempt) CanSubmit() bool {
	if len(a.questions) == 0 {
		return false
	}
	_, ok := a.answers[a.step]
	return ok
}

// Submit scores the attempt. Every question is compared against its single
// authoritative correct option; unanswered questions score as incorrect.
// Returns false without a result when submission is not offered.
func (a *Attempt) Submit() (QuizResult, bool) {
	if !a.CanSubmit() {
		return QuizResult{}, false
	}

	details := make([]QuestionDetail, 0, len(a.questions))
	correct := 0
	for i, q := range a.questions {
		correctID := correctOptionID(q)
		selectedID, answered := a.answers[i]
		isCorrect := answered && selectedID == correctID

		if isCorrect {
			correct++
		}

		detail := QuestionDetail{
			QuestionText:    q.Text,
			CorrectOptionID: correctID,
			IsCorrect:       isCorrect,
			Options:         append([]QuizOption(nil), q.Options...),
		}
		if answered {
			detail.SelectedOptionID = selectedID
		}
		details = append(details, detail)
	}

	total := len(a.questions)
	percent := 0
	if total > 0 {
		percent = int(math.Round(100 * float64(correct) / float64(total)))
	}

	result := QuizResult{Total: total, Correct: correct, Percent: percent, Details: details}
	a.result = &result
	return result, true
}

// Result returns the last submitted result, if any.
func (a *Attempt) Result() (QuizResult, bool) {
	if a.result == nil {
		return QuizResult{}, false
	}
	return *a.result, true
}

// Retry discards all recorded answers and the previous result and returns to
// question zero. Scoring is a pure function of the answers, so re-answering
// identically reproduces the same result.
func (a *Attempt) Retry() {
	a.answers = make(map[int]string)
	a.step = 0
	a.result = nil
}

// correctOptionID resolves the authoritative correct option for a question.
// Authoring is expected to mark exactly one option correct; if the source is
// malformed and marks several, the first in sequence wins so that scoring
// stays deterministic.
func correctOptionID(q QuizQuestion) string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return ""
}

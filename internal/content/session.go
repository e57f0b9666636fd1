package content

import "errors"

// ErrNotQuiz is returned by quiz operations when the active lesson is not a
// quiz.
var ErrNotQuiz = errors.New("active lesson is not a quiz")

// Session owns one learner's pass through a course: the ordered lesson
// sequence, the current position, per-lesson progress, quiz attempts and the
// transport state of the active video or document.
//
// Navigation bumps a revision counter. Asynchronous events (playback time,
// end-of-media) are stamped with the revision they were observed under and
// dropped when it no longer matches, so responses that arrive after the
// learner moved on never touch the wrong lesson.
type Session struct {
	courseTitle       string
	courseDescription string
	lessons           []Lesson
	index             int
	rev               uint64
	tracker           *Tracker
	attempts          map[string]*Attempt
	results           map[string]QuizResult
	resultVisible     bool
	players           map[string]*VideoPlayer
	docs              map[string]*DocumentView
	sidebarOpen       bool
}

// NewSession starts a session at the first lesson.
func NewSession(title, description string, lessons []Lesson) *Session {
	return &Session{
		courseTitle:       title,
		courseDescription: description,
		lessons:           lessons,
		rev:               1,
		tracker:           NewTracker(),
		attempts:          make(map[string]*Attempt),
		results:           make(map[string]QuizResult),
		players:           make(map[string]*VideoPlayer),
		docs:              make(map[string]*DocumentView),
	}
}

// CourseTitle returns the owning course title.
func (s *Session) CourseTitle() string { return s.courseTitle }

// CourseDescription returns the owning course description.
func (s *Session) CourseDescription() string { return s.courseDescription }

// Lessons returns the ordered lesson sequence.
func (s *Session) Lessons() []Lesson { return s.lessons }

// Index returns the current lesson index.
func (s *Session) Index() int { return s.index }

// Rev returns the current navigation revision.
func (s *Session) Rev() uint64 { return s.rev }

// Current returns the active lesson; false for an empty course.
func (s *Session) Current() (Lesson, bool) {
	if len(s.lessons) == 0 {
		return nil, false
	}
	return s.lessons[s.index], true
}

// Tracker exposes the session's progress tracker.
func (s *Session) Tracker() *Tracker { return s.tracker }

// CompletionPercent derives the aggregate completion percentage.
func (s *Session) CompletionPercent() int {
	return s.tracker.CompletionPercent(len(s.lessons))
}

// OpenSidebar opens the mobile lesson overlay.
func (s *Session) OpenSidebar() { s.sidebarOpen = true }

// SidebarOpen reports the overlay state.
func (s *Session) SidebarOpen() bool { return s.sidebarOpen }

// Next moves to the following lesson; a no-op at the last one.
func (s *Session) Next() {
	if s.index < len(s.lessons)-1 {
		s.selectIndex(s.index + 1)
	}
}

// Previous moves to the preceding lesson; a no-op at the first one.
func (s *Session) Previous() {
	if s.index > 0 {
		s.selectIndex(s.index - 1)
	}
}

// JumpTo selects the lesson with the given id. The quiz-result view and the
// document page position of the newly selected lesson are reset and the
// mobile overlay closes. Unknown ids are ignored.
func (s *Session) JumpTo(lessonID string) bool {
	for i, lesson := range s.lessons {
		if lesson.Meta().ID == lessonID {
			s.selectIndex(i)
			return true
		}
	}
	return false
}

func (s *Session) selectIndex(index int) {
	s.index = index
	s.rev++
	s.resultVisible = false
	s.sidebarOpen = false

	lesson := s.lessons[index]
	if lesson.Kind() == KindPDF {
		s.docs[lesson.Meta().ID] = NewDocumentView()
	}
}

// MarkCompleted flags the active lesson completed; the manual action used
// for documents.
func (s *Session) MarkCompleted() {
	if lesson, ok := s.Current(); ok {
		s.tracker.MarkCompleted(lesson.Meta().ID)
	}
}

// Player returns the transport state for the active video lesson, creating
// it on first access. Nil when the active lesson is not a video.
func (s *Session) Player() *VideoPlayer {
	lesson, ok := s.Current()
	if !ok {
		return nil
	}
	video, ok := lesson.(VideoLesson)
	if !ok {
		return nil
	}
	player, exists := s.players[video.ID]
	if !exists {
		player = NewVideoPlayer()
		s.players[video.ID] = player
	}
	return player
}

// Document returns the page state for the active document lesson, creating
// it on first access. Nil when the active lesson is not a document.
func (s *Session) Document() *DocumentView {
	lesson, ok := s.Current()
	if !ok {
		return nil
	}
	pdf, ok := lesson.(PDFLesson)
	if !ok {
		return nil
	}
	doc, exists := s.docs[pdf.ID]
	if !exists {
		doc = NewDocumentView()
		s.docs[pdf.ID] = doc
	}
	return doc
}

// HandleVideoTime applies a playback time update observed under rev for the
// given lesson. Stale or mismatched events are dropped.
func (s *Session) HandleVideoTime(rev uint64, lessonID string, seconds float64) bool {
	if !s.eventCurrent(rev, lessonID, KindVideo) {
		return false
	}
	if player := s.Player(); player != nil {
		player.Current = seconds
	}
	s.tracker.RecordVideoTime(lessonID, seconds)
	return true
}

// HandleVideoEnded applies an end-of-media event: playback stops and the
// lesson is marked completed. Stale or mismatched events are dropped.
func (s *Session) HandleVideoEnded(rev uint64, lessonID string) bool {
	if !s.eventCurrent(rev, lessonID, KindVideo) {
		return false
	}
	if player := s.Player(); player != nil {
		player.Ended()
	}
	s.tracker.MarkCompleted(lessonID)
	return true
}

func (s *Session) eventCurrent(rev uint64, lessonID string, kind LessonKind) bool {
	if rev != s.rev {
		return false
	}
	lesson, ok := s.Current()
	if !ok {
		return false
	}
	return lesson.Meta().ID == lessonID && lesson.Kind() == kind
}

// Attempt returns the in-progress attempt for the active quiz lesson,
// creating one on first access.
func (s *Session) Attempt() (*Attempt, error) {
	lesson, ok := s.Current()
	if !ok {
		return nil, ErrNotQuiz
	}
	quiz, ok := lesson.(QuizLesson)
	if !ok {
		return nil, ErrNotQuiz
	}
	attempt, exists := s.attempts[quiz.ID]
	if !exists {
		attempt = NewAttempt(quiz)
		s.attempts[quiz.ID] = attempt
	}
	return attempt, nil
}

// SubmitQuiz scores the active quiz attempt, stores the result keyed by the
// lesson and records the score (which also completes the lesson). Returns
// false when submission is not offered.
func (s *Session) SubmitQuiz() (QuizResult, bool, error) {
	attempt, err := s.Attempt()
	if err != nil {
		return QuizResult{}, false, err
	}
	result, ok := attempt.Submit()
	if !ok {
		return QuizResult{}, false, nil
	}

	lesson, _ := s.Current()
	s.results[lesson.Meta().ID] = result
	s.resultVisible = true
	s.tracker.RecordQuizScore(lesson.Meta().ID, result.Percent)
	return result, true, nil
}

// RetryQuiz discards the active quiz attempt's answers and result and
// returns to the first question.
func (s *Session) RetryQuiz() error {
	attempt, err := s.Attempt()
	if err != nil {
		return err
	}
	attempt.Retry()
	s.resultVisible = false
	return nil
}

// QuizResultFor returns the stored result for a lesson, if any.
func (s *Session) QuizResultFor(lessonID string) (QuizResult, bool) {
	result, ok := s.results[lessonID]
	return result, ok
}

// ResultVisible reports whether the result view is showing for the active
// quiz.
func (s *Session) ResultVisible() bool { return s.resultVisible }

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/content"
	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/observability"
	"github.com/crest-online/crest-api/internal/repository"
)

var (
	// ErrSessionNotFound indicates no open session for the user and course.
	ErrSessionNotFound = errors.New("no open content session")
	// ErrNotQuizLesson indicates a quiz operation hit a non-quiz lesson.
	ErrNotQuizLesson = errors.New("active lesson is not a quiz")
	// ErrQuizNotSubmittable indicates submission is not currently offered.
	ErrQuizNotSubmittable = errors.New("quiz is not ready to submit")
)

// SessionService drives per-learner content sessions: opening a gated course,
// navigating lessons, playback and document state, quiz attempts and durable
// progress.
type SessionService interface {
	Open(ctx context.Context, userID, courseID uint) (dto.SessionState, error)
	Navigate(ctx context.Context, userID, courseID uint, req dto.SessionNavigateRequest) (dto.SessionState, error)
	OpenSidebar(ctx context.Context, userID, courseID uint) (dto.SessionState, error)
	MarkCompleted(ctx context.Context, userID, courseID uint) (dto.SessionState, error)
	VideoTime(ctx context.Context, userID, courseID uint, req dto.VideoEventRequest) (dto.SessionState, error)
	VideoEnded(ctx context.Context, userID, courseID uint, req dto.VideoEventRequest) (dto.SessionState, error)
	PlayerControl(ctx context.Context, userID, courseID uint, req dto.PlayerControlRequest) (dto.SessionState, error)
	DocumentPage(ctx context.Context, userID, courseID uint, req dto.DocumentPageRequest) (dto.SessionState, error)
	QuizAnswer(ctx context.Context, userID, courseID uint, req dto.QuizAnswerRequest) (dto.SessionState, error)
	QuizNavigate(ctx context.Context, userID, courseID uint, req dto.QuizNavigateRequest) (dto.SessionState, error)
	QuizSubmit(ctx context.Context, userID, courseID uint) (dto.SessionState, error)
	QuizRetry(ctx context.Context, userID, courseID uint) (dto.SessionState, error)
	Close(ctx context.Context, userID, courseID uint) error
}

type liveSession struct {
	userID   uint
	courseID uint
	session  *content.Session
}

type sessionService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	progress    repository.ProgressRepository
	logger      zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*liveSession
}

// NewSessionService constructs the session service.
func NewSessionService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.ProgressRepository,
	logger zerolog.Logger,
) SessionService {
	return &sessionService{
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		progress:    progressRepo,
		logger:      logger.With().Str("component", "session_service").Logger(),
		sessions:    make(map[string]*liveSession),
	}
}

// Open starts (or resumes) a session for an approved learner. Durable
// progress is rehydrated so completion survives restarts.
func (s *sessionService) Open(ctx context.Context, userID, courseID uint) (dto.SessionState, error) {
	if err := s.requireApproved(ctx, userID, courseID); err != nil {
		return dto.SessionState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(userID, courseID)
	if live, ok := s.sessions[key]; ok {
		return s.snapshot(live), nil
	}

	course, err := s.courses.GetWithContent(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionState{}, ErrCourseNotFound
		}
		return dto.SessionState{}, err
	}

	session := content.NewSession(course.Title, course.Description, content.BuildLessons(course))

	records, err := s.progress.ListByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return dto.SessionState{}, err
	}
	if len(records) > 0 {
		restored := make(map[string]content.LessonProgress, len(records))
		for _, record := range records {
			restored[record.LessonKey] = content.LessonProgress{
				Completed:    record.Completed,
				VideoSeconds: record.VideoSeconds,
				QuizScore:    record.QuizScore,
			}
		}
		session.Tracker().Restore(restored)
	}

	live := &liveSession{userID: userID, courseID: courseID, session: session}
	s.sessions[key] = live

	observability.SessionOpens().Inc()
	s.logger.Info().Uint("user_id", userID).Uint("course_id", courseID).Msg("content session opened")

	return s.snapshot(live), nil
}

func (s *sessionService) Navigate(ctx context.Context, userID, courseID uint, req dto.SessionNavigateRequest) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		switch {
		case req.LessonID != "":
			live.session.JumpTo(req.LessonID)
		case req.Direction == "previous":
			live.session.Previous()
		default:
			live.session.Next()
		}
		return nil
	}, nil)
}

func (s *sessionService) OpenSidebar(ctx context.Context, userID, courseID uint) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		live.session.OpenSidebar()
		return nil
	}, nil)
}

func (s *sessionService) MarkCompleted(ctx context.Context, userID, courseID uint) (dto.SessionState, error) {
	var lessonID string
	return s.withSession(userID, courseID, func(live *liveSession) error {
		live.session.MarkCompleted()
		if lesson, ok := live.session.Current(); ok {
			lessonID = lesson.Meta().ID
		}
		return nil
	}, func(live *liveSession) {
		s.persistLesson(ctx, live, lessonID)
	})
}

func (s *sessionService) VideoTime(ctx context.Context, userID, courseID uint, req dto.VideoEventRequest) (dto.SessionState, error) {
	var applied bool
	return s.withSession(userID, courseID, func(live *liveSession) error {
		applied = live.session.HandleVideoTime(req.Rev, req.LessonID, req.Seconds)
		return nil
	}, func(live *liveSession) {
		if applied {
			s.persistLesson(ctx, live, req.LessonID)
		}
	})
}

func (s *sessionService) VideoEnded(ctx context.Context, userID, courseID uint, req dto.VideoEventRequest) (dto.SessionState, error) {
	var applied bool
	return s.withSession(userID, courseID, func(live *liveSession) error {
		applied = live.session.HandleVideoEnded(req.Rev, req.LessonID)
		return nil
	}, func(live *liveSession) {
		if applied {
			s.persistLesson(ctx, live, req.LessonID)
		}
	})
}

func (s *sessionService) PlayerControl(ctx context.Context, userID, courseID uint, req dto.PlayerControlRequest) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		player := live.session.Player()
		if player == nil {
			return nil
		}
		switch req.Action {
		case "toggle_play":
			player.TogglePlay()
		case "toggle_mute":
			player.ToggleMute()
		case "toggle_fullscreen":
			player.ToggleFullscreen()
		case "set_volume":
			player.SetVolume(req.Value)
		case "seek":
			player.Seek(req.Value)
		case "rewind":
			player.Rewind10()
		case "set_duration":
			player.SetDuration(req.Value)
		}
		return nil
	}, nil)
}

func (s *sessionService) DocumentPage(ctx context.Context, userID, courseID uint, req dto.DocumentPageRequest) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		doc := live.session.Document()
		if doc == nil {
			return nil
		}
		if req.Action == "previous" {
			doc.PrevPage()
		} else {
			doc.NextPage()
		}
		return nil
	}, nil)
}

func (s *sessionService) QuizAnswer(ctx context.Context, userID, courseID uint, req dto.QuizAnswerRequest) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		attempt, err := live.session.Attempt()
		if err != nil {
			return ErrNotQuizLesson
		}
		attempt.SelectAnswer(req.QuestionIndex, req.OptionID)
		return nil
	}, nil)
}

func (s *sessionService) QuizNavigate(ctx context.Context, userID, courseID uint, req dto.QuizNavigateRequest) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		attempt, err := live.session.Attempt()
		if err != nil {
			return ErrNotQuizLesson
		}
		switch req.Action {
		case "back":
			attempt.Back()
		case "goto":
			attempt.GoTo(req.Index)
		default:
			attempt.Next()
		}
		return nil
	}, nil)
}

func (s *sessionService) QuizSubmit(ctx context.Context, userID, courseID uint) (dto.SessionState, error) {
	var lessonID string
	return s.withSession(userID, courseID, func(live *liveSession) error {
		_, ok, err := live.session.SubmitQuiz()
		if err != nil {
			return ErrNotQuizLesson
		}
		if !ok {
			return ErrQuizNotSubmittable
		}
		if lesson, current := live.session.Current(); current {
			lessonID = lesson.Meta().ID
		}
		observability.QuizSubmissions().Inc()
		return nil
	}, func(live *liveSession) {
		s.persistLesson(ctx, live, lessonID)
	})
}

func (s *sessionService) QuizRetry(ctx context.Context, userID, courseID uint) (dto.SessionState, error) {
	return s.withSession(userID, courseID, func(live *liveSession) error {
		if err := live.session.RetryQuiz(); err != nil {
			return ErrNotQuizLesson
		}
		return nil
	}, nil)
}

// Close discards the in-memory session. Durable progress is already
// persisted, so reopening resumes completion state.
func (s *sessionService) Close(ctx context.Context, userID, courseID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(userID, courseID)
	if _, ok := s.sessions[key]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, key)
	return nil
}

// withSession runs op against the live session under the registry lock, then
// after (if set), and returns a fresh snapshot.
func (s *sessionService) withSession(userID, courseID uint, op func(*liveSession) error, after func(*liveSession)) (dto.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, ok := s.sessions[sessionKey(userID, courseID)]
	if !ok {
		return dto.SessionState{}, ErrSessionNotFound
	}
	if err := op(live); err != nil {
		return dto.SessionState{}, err
	}
	if after != nil {
		after(live)
	}
	return s.snapshot(live), nil
}

// persistLesson writes one lesson's tracked state through to storage. Failures
// are logged, not surfaced: the live session remains authoritative and the
// next write retries the same row.
func (s *sessionService) persistLesson(ctx context.Context, live *liveSession, lessonID string) {
	if lessonID == "" {
		return
	}
	entry := live.session.Tracker().Lesson(lessonID)
	record := models.LessonProgress{
		UserID:       live.userID,
		CourseID:     live.courseID,
		LessonKey:    lessonID,
		Completed:    entry.Completed,
		VideoSeconds: entry.VideoSeconds,
		QuizScore:    entry.QuizScore,
	}
	if err := s.progress.Upsert(ctx, &record); err != nil {
		s.logger.Warn().Err(err).
			Uint("user_id", live.userID).
			Str("lesson", lessonID).
			Msg("failed to persist lesson progress")
	}
}

func (s *sessionService) requireApproved(ctx context.Context, userID, courseID uint) error {
	if userID == 0 {
		return ErrEnrollmentRequired
	}
	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentRequired
		}
		return err
	}
	if models.NormalizeEnrollmentStatus(enrollment.Status) != models.EnrollmentApproved {
		return ErrEnrollmentRequired
	}
	return nil
}

func (s *sessionService) snapshot(live *liveSession) dto.SessionState {
	session := live.session
	state := dto.SessionState{
		CourseID:          live.courseID,
		CourseTitle:       session.CourseTitle(),
		Rev:               session.Rev(),
		LessonIndex:       session.Index(),
		TotalLessons:      len(session.Lessons()),
		CompletionPercent: session.CompletionPercent(),
		Progress:          make(map[string]dto.LessonProgress),
	}

	for id, entry := range session.Tracker().Snapshot() {
		state.Progress[id] = dto.LessonProgress{
			Completed:    entry.Completed,
			VideoSeconds: entry.VideoSeconds,
			QuizScore:    entry.QuizScore,
		}
	}

	lesson, ok := session.Current()
	if !ok {
		return state
	}
	state.CurrentLessonID = lesson.Meta().ID
	state.CurrentLessonType = string(lesson.Kind())

	switch lesson.Kind() {
	case content.KindVideo:
		if player := session.Player(); player != nil {
			state.Player = &dto.PlayerState{
				Playing:    player.Playing,
				Muted:      player.Muted,
				Fullscreen: player.Fullscreen,
				Volume:     player.Volume,
				Current:    player.Current,
				Duration:   player.Duration,
			}
		}
	case content.KindPDF:
		if doc := session.Document(); doc != nil {
			state.Document = &dto.DocumentState{Page: doc.Page}
		}
	case content.KindQuiz:
		if attempt, err := session.Attempt(); err == nil {
			quiz := &dto.QuizState{
				Step:          attempt.Step(),
				Total:         attempt.Total(),
				AnsweredCount: attempt.AnsweredCount(),
				CanSubmit:     attempt.CanSubmit(),
				ResultVisible: session.ResultVisible(),
			}
			if result, has := session.QuizResultFor(lesson.Meta().ID); has {
				quiz.Result = toQuizResult(result)
			}
			state.Quiz = quiz
		}
	}

	return state
}

func toQuizResult(result content.QuizResult) *dto.QuizResult {
	details := make([]dto.QuestionDetail, 0, len(result.Details))
	for _, detail := range result.Details {
		options := make([]dto.QuizOptionPayload, 0, len(detail.Options))
		for _, opt := range detail.Options {
			options = append(options, dto.QuizOptionPayload{ID: opt.ID, Text: opt.Text})
		}
		details = append(details, dto.QuestionDetail{
			QuestionText:     detail.QuestionText,
			SelectedOptionID: detail.SelectedOptionID,
			CorrectOptionID:  detail.CorrectOptionID,
			IsCorrect:        detail.IsCorrect,
			Options:          options,
		})
	}
	return &dto.QuizResult{
		Total:   result.Total,
		Correct: result.Correct,
		Percent: result.Percent,
		Details: details,
	}
}

func sessionKey(userID, courseID uint) string {
	return fmt.Sprintf("%d:%d", userID, courseID)
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/crest-online/crest-api/internal/dto"
	"github.com/crest-online/crest-api/internal/models"
	"github.com/crest-online/crest-api/internal/observability"
	"github.com/crest-online/crest-api/internal/repository"
	"github.com/crest-online/crest-api/pkg/mailer"
)

const (
	paymentProofFolder  = "payment-proofs"
	maxProofBytes int64 = 5 * 1024 * 1024
)

var (
	// ErrEnrollmentNotFound indicates enrollment lookup failed.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrAlreadyEnrolled indicates an approved enrollment already exists.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
	// ErrEnrollmentPending indicates a submission is already under review.
	ErrEnrollmentPending = errors.New("enrollment request is pending review")
	// ErrEnrollmentDecided indicates the enrollment already left pending.
	ErrEnrollmentDecided = errors.New("enrollment has already been decided")
	// ErrInvalidPhone indicates the contact number failed validation.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrProofRequired indicates no payment proof file was supplied.
	ErrProofRequired = errors.New("payment proof file is required")
	// ErrProofNotImage indicates the payment proof is not an image.
	ErrProofNotImage = errors.New("payment proof must be an image")
	// ErrProofTooLarge indicates the payment proof exceeded the size limit.
	ErrProofTooLarge = errors.New("payment proof exceeds maximum allowed size")
)

// ProofStorage abstracts the payment-proof upload destination.
type ProofStorage interface {
	Upload(ctx context.Context, folder, name string, reader io.Reader) (string, error)
}

// DecisionPublisher broadcasts enrollment decisions to interested consumers.
type DecisionPublisher interface {
	Publish(subject string, payload []byte) error
}

// ProofSubmission carries one payment-proof submission.
type ProofSubmission struct {
	UserID   uint
	CourseID uint
	Phone    string
	FileName string
	File     io.Reader
}

// EnrollmentService runs the manual-payment enrollment flow: status lookup,
// proof submission and the admin review queue.
type EnrollmentService interface {
	Status(ctx context.Context, courseID, callerID uint) (dto.EnrollmentStatusResponse, error)
	SubmitProof(ctx context.Context, submission ProofSubmission) (dto.EnrollmentSubmitResponse, error)
	List(ctx context.Context, status string, courseID uint) ([]dto.EnrollmentResponse, error)
	Decide(ctx context.Context, payload dto.EnrollmentDecisionRequest) (dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	storage     ProofStorage
	mail        mailer.Mailer
	events      DecisionPublisher
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs the enrollment service. The events publisher
// may be nil when no broker is configured.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	storage ProofStorage,
	mail mailer.Mailer,
	events DecisionPublisher,
	validate *validator.Validate,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		users:       userRepo,
		storage:     storage,
		mail:        mail,
		events:      events,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

// Status reports the caller's standing for a course. It is side-effect free;
// an unauthenticated caller is simply not enrolled, never an error.
func (s *enrollmentService) Status(ctx context.Context, courseID, callerID uint) (dto.EnrollmentStatusResponse, error) {
	response := dto.EnrollmentStatusResponse{ShouldEnroll: true, Status: "not_enrolled"}
	if callerID == 0 {
		return response, nil
	}

	enrollment, err := s.enrollments.FindByUserAndCourse(ctx, callerID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response, nil
		}
		return dto.EnrollmentStatusResponse{}, err
	}

	switch models.NormalizeEnrollmentStatus(enrollment.Status) {
	case models.EnrollmentApproved:
		return dto.EnrollmentStatusResponse{Enrolled: true, Status: models.EnrollmentApproved}, nil
	case models.EnrollmentPending:
		return dto.EnrollmentStatusResponse{Pending: true, Status: models.EnrollmentPending}, nil
	default:
		// A rejected request does not block resubmission.
		return dto.EnrollmentStatusResponse{ShouldEnroll: true, Status: models.EnrollmentRejected}, nil
	}
}

// SubmitProof validates and stores a payment-proof submission, creating a
// pending enrollment. Confirmation and review-queue emails are fired
// asynchronously; their failure never fails the submission.
func (s *enrollmentService) SubmitProof(ctx context.Context, submission ProofSubmission) (dto.EnrollmentSubmitResponse, error) {
	phone, err := normalizePhone(submission.Phone)
	if err != nil {
		return dto.EnrollmentSubmitResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, submission.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentSubmitResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentSubmitResponse{}, err
	}

	existing, err := s.enrollments.FindByUserAndCourse(ctx, submission.UserID, submission.CourseID)
	if err == nil {
		switch models.NormalizeEnrollmentStatus(existing.Status) {
		case models.EnrollmentApproved:
			return dto.EnrollmentSubmitResponse{}, ErrAlreadyEnrolled
		case models.EnrollmentPending:
			return dto.EnrollmentSubmitResponse{}, ErrEnrollmentPending
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.EnrollmentSubmitResponse{}, err
	}

	proofURL, err := s.storeProof(ctx, submission)
	if err != nil {
		return dto.EnrollmentSubmitResponse{}, err
	}

	enrollment := models.Enrollment{
		UserID:          submission.UserID,
		CourseID:        submission.CourseID,
		Phone:           phone,
		Status:          models.EnrollmentPending,
		PaymentProofURL: proofURL,
	}
	if err := s.enrollments.Create(ctx, &enrollment); err != nil {
		return dto.EnrollmentSubmitResponse{}, err
	}

	observability.EnrollmentSubmissions().WithLabelValues("submitted").Inc()
	s.logger.Info().
		Uint("enrollment_id", enrollment.ID).
		Uint("user_id", submission.UserID).
		Uint("course_id", submission.CourseID).
		Msg("payment proof submitted")

	s.notifySubmission(ctx, submission.UserID, phone, course.Title, proofURL)

	return dto.EnrollmentSubmitResponse{
		EnrollmentID: enrollment.ID,
		Status:       models.EnrollmentPending,
	}, nil
}

func (s *enrollmentService) List(ctx context.Context, status string, courseID uint) ([]dto.EnrollmentResponse, error) {
	filter := repository.EnrollmentFilter{CourseID: courseID}
	if trimmed := strings.TrimSpace(status); trimmed != "" {
		filter.Status = models.NormalizeEnrollmentStatus(trimmed)
	}

	enrollments, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		items = append(items, toEnrollmentResponse(enrollment))
	}
	return items, nil
}

// Decide applies an admin approval or rejection, notifies the student and
// publishes the decision for downstream consumers.
func (s *enrollmentService) Decide(ctx context.Context, payload dto.EnrollmentDecisionRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, err := s.enrollments.GetByID(ctx, payload.EnrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	// Approval and rejection are one-way exits from pending. A rejected
	// enrollment re-enters review only through a fresh proof submission.
	if models.NormalizeEnrollmentStatus(enrollment.Status) != models.EnrollmentPending {
		return dto.EnrollmentResponse{}, ErrEnrollmentDecided
	}

	enrollment.Status = models.NormalizeEnrollmentStatus(payload.Status)
	enrollment.RejectReason = ""
	if enrollment.Status == models.EnrollmentRejected {
		enrollment.RejectReason = strings.TrimSpace(payload.Reason)
	}
	enrollment.UpdatedAt = s.now()

	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	observability.EnrollmentSubmissions().WithLabelValues(enrollment.Status).Inc()
	s.logger.Info().
		Uint("enrollment_id", enrollment.ID).
		Str("status", enrollment.Status).
		Msg("enrollment decided")

	s.notifyDecision(ctx, enrollment)
	s.publishDecision(enrollment)

	return toEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) storeProof(ctx context.Context, submission ProofSubmission) (string, error) {
	if submission.File == nil {
		return "", ErrProofRequired
	}

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(submission.File, maxProofBytes+1)); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", ErrProofRequired
	}
	if int64(buf.Len()) > maxProofBytes {
		return "", ErrProofTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", ErrProofNotImage
	}

	start := s.now()
	url, err := s.storage.Upload(ctx, paymentProofFolder, submission.FileName, bytes.NewReader(buf.Bytes()))
	observability.UploadLatency().Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *enrollmentService) notifySubmission(ctx context.Context, userID uint, phone, courseTitle, proofURL string) {
	if s.mail == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("skipping submission emails, user lookup failed")
		return
	}
	s.mail.SendEnrollmentReceipt(user.Email, user.FullName, courseTitle)
	s.mail.SendEnrollmentNotice(user.FullName, phone, courseTitle, proofURL)
}

func (s *enrollmentService) notifyDecision(ctx context.Context, enrollment models.Enrollment) {
	if s.mail == nil {
		return
	}
	user, err := s.users.GetByID(ctx, enrollment.UserID)
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", enrollment.UserID).Msg("skipping decision email, user lookup failed")
		return
	}
	courseTitle := ""
	if course, err := s.courses.GetByID(ctx, enrollment.CourseID); err == nil {
		courseTitle = course.Title
	}
	s.mail.SendEnrollmentDecision(user.Email, user.FullName, courseTitle, enrollment.Status, enrollment.RejectReason)
}

func (s *enrollmentService) publishDecision(enrollment models.Enrollment) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"enrollment_id": enrollment.ID,
		"user_id":       enrollment.UserID,
		"course_id":     enrollment.CourseID,
		"status":        enrollment.Status,
		"decided_at":    enrollment.UpdatedAt,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode enrollment decision event")
		return
	}
	if err := s.events.Publish("enrollments.decided", payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish enrollment decision event")
	}
}

// normalizePhone strips whitespace and validates the contact number. Local
// numbers are exactly 11 digits starting 01; anything else needs at least 8
// digits, with one optional leading +.
func normalizePhone(raw string) (string, error) {
	var compact strings.Builder
	for _, r := range raw {
		switch r {
		case ' ', '\t', '-':
			continue
		default:
			compact.WriteRune(r)
		}
	}

	phone := compact.String()
	digits := phone
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	if digits == "" {
		return "", ErrInvalidPhone
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}

	if strings.HasPrefix(digits, "01") {
		if len(digits) != 11 {
			return "", ErrInvalidPhone
		}
		return phone, nil
	}
	if len(digits) < 8 {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

func toEnrollmentResponse(enrollment models.Enrollment) dto.EnrollmentResponse {
	return dto.EnrollmentResponse{
		ID:              enrollment.ID,
		UserID:          enrollment.UserID,
		CourseID:        enrollment.CourseID,
		Phone:           enrollment.Phone,
		Status:          enrollment.Status,
		RejectReason:    enrollment.RejectReason,
		PaymentProofURL: enrollment.PaymentProofURL,
		CreatedAt:       enrollment.CreatedAt,
		UpdatedAt:       enrollment.UpdatedAt,
	}
}

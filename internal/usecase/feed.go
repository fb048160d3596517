package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/skillstream/edu-notify/internal/core/domain"
	"github.com/skillstream/edu-notify/internal/core/port"
	"github.com/skillstream/edu-notify/internal/repository"
)

var (
	// ErrInvalidRequestID indicates the on-demand trigger received a
	// non-positive request id.
	ErrInvalidRequestID = errors.New("video request id must be positive")
	// ErrRequestNotFound indicates the referenced video request, or its
	// owning profile, does not exist.
	ErrRequestNotFound = errors.New("video request not found")
)

// ChangeFeedService consumes batches of request changes and dispatches one
// notification per change, plus the on-demand single-record variant.
type ChangeFeedService struct {
	profiles port.ProfileRepository
	requests port.RequestRepository
	notifier *NotifierService
	ledger   port.NotificationLedger
	metrics  port.FeedMetrics
	logger   *zap.Logger
}

// NewChangeFeedService constructs the feed consumer. Ledger and metrics may be
// nil; without a ledger, redelivered records produce duplicate notifications.
func NewChangeFeedService(profiles port.ProfileRepository, requests port.RequestRepository, notifier *NotifierService, logger *zap.Logger) *ChangeFeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeFeedService{
		profiles: profiles,
		requests: requests,
		notifier: notifier,
		logger:   logger,
	}
}

// WithLedger enables at-most-once delivery per (request, status) pair.
func (s *ChangeFeedService) WithLedger(ledger port.NotificationLedger) *ChangeFeedService {
	s.ledger = ledger
	return s
}

// WithMetrics attaches per-record outcome counters.
func (s *ChangeFeedService) WithMetrics(metrics port.FeedMetrics) *ChangeFeedService {
	s.metrics = metrics
	return s
}

// Consume processes the batch sequentially in delivery order. Records are
// independent: a record whose owner cannot be resolved, or whose delivery
// fails, is logged and skipped — it never prevents the rest of the batch from
// being attempted.
func (s *ChangeFeedService) Consume(ctx context.Context, changes []domain.RequestChange) {
	for _, change := range changes {
		s.consumeOne(ctx, change)
	}
}

func (s *ChangeFeedService) consumeOne(ctx context.Context, change domain.RequestChange) {
	request := change.Request

	log := s.logger.With(
		zap.Int64("video_request_id", request.VideoRequestID),
		zap.String("operation", string(change.Operation)),
		zap.String("status", string(request.RequestStatus)),
	)

	if change.Operation == domain.ChangeDelete {
		log.Debug("skip deleted video request")
		s.observeSkipped("deleted")
		return
	}

	if s.ledger != nil {
		first, err := s.ledger.MarkIfFirst(ctx, request.VideoRequestID, request.RequestStatus)
		if err != nil {
			// Ledger faults degrade to the default redelivery behavior
			// rather than dropping the notification.
			log.Warn("notification ledger unavailable", zap.Error(err))
		} else if !first {
			log.Info("skip already notified video request")
			s.observeSkipped("duplicate")
			return
		}
	}

	owner, err := s.profiles.FindByID(ctx, request.UserID)
	if err != nil {
		log.Error("resolve video request owner failed",
			zap.Int64("user_id", request.UserID),
			zap.Error(err),
		)
		s.observeSkipped("owner_missing")
		return
	}

	if err := s.notifier.Notify(ctx, request, owner.MailboxName(), owner.Email); err != nil {
		log.Error("notification delivery failed", zap.Error(err))
		s.observeFailed()
		return
	}

	log.Info("notification delivered")
	s.observeDelivered()
}

// NotifyByRequestID loads a single video request with its owner and invokes
// the notifier once. Same rendering and delivery contract as Consume,
// different activation source.
func (s *ChangeFeedService) NotifyByRequestID(ctx context.Context, videoRequestID int64) error {
	if videoRequestID < 1 {
		return ErrInvalidRequestID
	}

	request, err := s.requests.GetByID(ctx, videoRequestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrRequestNotFound, videoRequestID)
		}
		return fmt.Errorf("load video request: %w", err)
	}

	owner, err := s.profiles.FindByID(ctx, request.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: owner of id %d", ErrRequestNotFound, videoRequestID)
		}
		return fmt.Errorf("load video request owner: %w", err)
	}

	return s.notifier.Notify(ctx, *request, owner.MailboxName(), owner.Email)
}

func (s *ChangeFeedService) observeDelivered() {
	if s.metrics != nil {
		s.metrics.ObserveDelivered()
	}
}

func (s *ChangeFeedService) observeFailed() {
	if s.metrics != nil {
		s.metrics.ObserveFailed()
	}
}

func (s *ChangeFeedService) observeSkipped(reason string) {
	if s.metrics != nil {
		s.metrics.ObserveSkipped(reason)
	}
}

package worklog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/events"
	"pharmacy-hr/internal/messaging/kafka"
	"pharmacy-hr/internal/shared/contextutil"
	worklogerrors "pharmacy-hr/internal/worklog/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=worklog_service.go -destination=mock/worklog_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Actor, req CreateWorkLogRequest) (WorkLogResponse, error)
	Update(ctx context.Context, actor domain.Actor, id string, req UpdateWorkLogRequest) (WorkLogResponse, error)
	Submit(ctx context.Context, actor domain.Actor, id string) (WorkLogResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (WorkLogResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id, reason string) (WorkLogResponse, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	GetByID(ctx context.Context, actor domain.Actor, id string) (WorkLogResponse, error)
	ListMine(ctx context.Context, actor domain.Actor, status string) ([]WorkLogResponse, error)
	ListForReview(ctx context.Context, actor domain.Actor, status string) ([]ReviewWorkLogResponse, error)
	ListApproved(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]WorkLog, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("worklog.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("worklog.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, req CreateWorkLogRequest) (WorkLogResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create work log requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID.String()),
		zap.String("work_date", req.WorkDate),
	)

	w, err := NewDraft(uuid.New(), actor, req.details())
	if err != nil {
		s.logger.Warn("create work log validation failed", zap.String("request_id", rid), zap.Error(err))
		return WorkLogResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create work log begin tx failed", zap.Error(err))
		return WorkLogResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, &w); err != nil {
		s.logger.Error("create work log persist failed", zap.Error(err))
		return WorkLogResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("create work log commit failed", zap.Error(err))
		return WorkLogResponse{}, err
	}

	s.logger.Info("create work log success",
		zap.String("request_id", rid),
		zap.String("work_log_id", w.ID.String()),
		zap.String("actor_id", actor.ID.String()),
	)
	return mapToResponse(w), nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id string, req UpdateWorkLogRequest) (WorkLogResponse, error) {
	return s.transition(ctx, actor, id, "edit", func(w WorkLog) (WorkLog, error) {
		return Edit(w, actor, req.details())
	})
}

func (s *service) Submit(ctx context.Context, actor domain.Actor, id string) (WorkLogResponse, error) {
	return s.transition(ctx, actor, id, "submit", func(w WorkLog) (WorkLog, error) {
		return Submit(w, actor)
	})
}

func (s *service) Approve(ctx context.Context, actor domain.Actor, id string) (WorkLogResponse, error) {
	return s.transition(ctx, actor, id, "approve", func(w WorkLog) (WorkLog, error) {
		return Approve(w, actor, time.Now().UTC())
	})
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, id, reason string) (WorkLogResponse, error) {
	return s.transition(ctx, actor, id, "reject", func(w WorkLog) (WorkLog, error) {
		return Reject(w, actor, reason, time.Now().UTC())
	})
}

// transition loads the row under lock, applies one lifecycle step and persists it.
// Review decisions also queue an outbox event inside the same transaction.
func (s *service) transition(
	ctx context.Context,
	actor domain.Actor,
	id, op string,
	apply func(WorkLog) (WorkLog, error),
) (WorkLogResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("work log transition requested",
		zap.String("request_id", rid),
		zap.String("work_log_id", id),
		zap.String("actor_id", actor.ID.String()),
		zap.String("op", op),
	)

	if _, err := uuid.Parse(id); err != nil {
		return WorkLogResponse{}, worklogerrors.ErrInvalidWorkLogID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("work log transition begin tx failed", zap.String("op", op), zap.Error(err))
		return WorkLogResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	current, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return WorkLogResponse{}, mapRepositoryError(err)
	}

	next, err := apply(*current)
	if err != nil {
		s.logger.Warn("work log transition rejected",
			zap.String("request_id", rid),
			zap.String("work_log_id", id),
			zap.String("op", op),
			zap.String("from_status", string(current.Status)),
			zap.Error(err),
		)
		return WorkLogResponse{}, err
	}

	if err := qtx.Update(ctx, &next); err != nil {
		s.logger.Error("work log transition persist failed",
			zap.String("work_log_id", id),
			zap.String("op", op),
			zap.Error(err),
		)
		return WorkLogResponse{}, err
	}

	if next.Status == StatusApproved || next.Status == StatusRejected {
		if err := s.queueReviewed(ctx, tx, next); err != nil {
			s.logger.Error("work log reviewed outbox persist failed",
				zap.String("work_log_id", id),
				zap.Error(err),
			)
			return WorkLogResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("work log transition commit failed", zap.String("work_log_id", id), zap.Error(err))
		return WorkLogResponse{}, err
	}

	s.logger.Info("work log transition success",
		zap.String("request_id", rid),
		zap.String("work_log_id", id),
		zap.String("op", op),
		zap.String("from_status", string(current.Status)),
		zap.String("to_status", string(next.Status)),
	)
	return mapToResponse(next), nil
}

func (s *service) queueReviewed(ctx context.Context, tx *sql.Tx, w WorkLog) error {
	if s.outbox == nil {
		return nil
	}

	eventType := events.EventWorkLogApproved
	if w.Status == StatusRejected {
		eventType = events.EventWorkLogRejected
	}
	rid := contextutil.GetRequestID(ctx)
	event := events.WorkLogReviewedEvent{
		EventType:    eventType,
		RequestID:    rid,
		WorkLogID:    w.ID.String(),
		UserID:       w.OwnerID.String(),
		Status:       string(w.Status),
		WorkDate:     w.WorkDate.Format(dateLayout),
		RejectReason: w.RejectReason,
		OccurredAt:   time.Now().UTC(),
	}
	if w.ReviewerID != nil {
		event.ReviewerID = w.ReviewerID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "work_log",
		AggregateID:   w.ID.String(),
		EventType:     eventType,
		Topic:         events.WorkLogReviewedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return worklogerrors.ErrInvalidWorkLogID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete work log begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	w, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if err := CheckDelete(*w, actor); err != nil {
		s.logger.Warn("delete work log rejected",
			zap.String("work_log_id", id),
			zap.String("status", string(w.Status)),
			zap.Error(err),
		)
		return err
	}
	if err := qtx.Delete(ctx, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("delete work log commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("delete work log success",
		zap.String("work_log_id", id),
		zap.String("actor_id", actor.ID.String()),
	)
	return nil
}

func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (WorkLogResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return WorkLogResponse{}, worklogerrors.ErrInvalidWorkLogID
	}
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return WorkLogResponse{}, mapRepositoryError(err)
	}
	if !actor.Is(w.OwnerID) && !actor.IsReviewer() {
		return WorkLogResponse{}, worklogerrors.ErrReadForbidden
	}
	return mapToResponse(*w), nil
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor, status string) ([]WorkLogResponse, error) {
	filter := ListFilter{OwnerID: actor.ID.String()}
	if status != "" {
		st := Status(status)
		if !st.IsValid() {
			return nil, worklogerrors.ErrInvalidStatusFilter
		}
		filter.Status = st
	}

	logs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list work logs failed", zap.String("actor_id", actor.ID.String()), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(logs), nil
}

func (s *service) ListForReview(ctx context.Context, actor domain.Actor, status string) ([]ReviewWorkLogResponse, error) {
	if !actor.IsReviewer() {
		return nil, worklogerrors.ErrReviewerRequired
	}
	st := StatusSubmitted
	if status != "" {
		st = Status(status)
		if !st.IsValid() {
			return nil, worklogerrors.ErrInvalidStatusFilter
		}
	}

	rows, err := s.repo.FindForReview(ctx, st)
	if err != nil {
		s.logger.Error("list work logs for review failed", zap.Error(err))
		return nil, err
	}

	resp := make([]ReviewWorkLogResponse, len(rows))
	for i, row := range rows {
		resp[i] = ReviewWorkLogResponse{
			WorkLogResponse: mapToResponse(row.WorkLog),
			OwnerName:       row.OwnerName,
			OwnerEmail:      row.OwnerEmail,
		}
	}
	return resp, nil
}

// ListApproved returns the owner's approved logs with work_date in [from, to].
func (s *service) ListApproved(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]WorkLog, error) {
	return s.repo.FindAll(ctx, ListFilter{
		OwnerID: ownerID.String(),
		Status:  StatusApproved,
		From:    from.Format(dateLayout),
		To:      to.Format(dateLayout),
	})
}

func mapToResponse(w WorkLog) WorkLogResponse {
	resp := WorkLogResponse{
		ID:           w.ID.String(),
		UserID:       w.OwnerID.String(),
		WorkDate:     w.WorkDate.Format(dateLayout),
		StartTime:    w.StartTime,
		EndTime:      w.EndTime,
		BreakMinutes: w.BreakMinutes,
		Note:         w.Note,
		Status:       string(w.Status),
		RejectReason: w.RejectReason,
		CreatedAt:    w.CreatedAt.Format(time.RFC3339),
	}
	if w.ReviewerID != nil {
		v := w.ReviewerID.String()
		resp.ApprovedBy = &v
	}
	if w.ReviewedAt != nil {
		v := w.ReviewedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(logs []WorkLog) []WorkLogResponse {
	resp := make([]WorkLogResponse, len(logs))
	for i, w := range logs {
		resp[i] = mapToResponse(w)
	}
	return resp
}

package worklog_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/events"
	"pharmacy-hr/internal/messaging/kafka"
	kafkaMock "pharmacy-hr/internal/messaging/kafka/mock"
	"pharmacy-hr/internal/shared/contextutil"
	"pharmacy-hr/internal/worklog"
	worklogerrors "pharmacy-hr/internal/worklog/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeWorkLogRepository struct {
	withTxFn            func(tx *sql.Tx) worklog.Repository
	createFn            func(ctx context.Context, w *worklog.WorkLog) error
	findByIDFn          func(ctx context.Context, id string) (*worklog.WorkLog, error)
	findByIDForUpdateFn func(ctx context.Context, id string) (*worklog.WorkLog, error)
	findAllFn           func(ctx context.Context, filter worklog.ListFilter) ([]worklog.WorkLog, error)
	findForReviewFn     func(ctx context.Context, status worklog.Status) ([]worklog.ReviewRow, error)
	updateFn            func(ctx context.Context, w *worklog.WorkLog) error
	deleteFn            func(ctx context.Context, id string) error
}

func (f *fakeWorkLogRepository) WithTx(tx *sql.Tx) worklog.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeWorkLogRepository) Create(ctx context.Context, w *worklog.WorkLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, w)
	}
	return nil
}

func (f *fakeWorkLogRepository) FindByID(ctx context.Context, id string) (*worklog.WorkLog, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWorkLogRepository) FindByIDForUpdate(ctx context.Context, id string) (*worklog.WorkLog, error) {
	if f.findByIDForUpdateFn != nil {
		return f.findByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWorkLogRepository) FindAll(ctx context.Context, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeWorkLogRepository) FindForReview(ctx context.Context, status worklog.Status) ([]worklog.ReviewRow, error) {
	if f.findForReviewFn != nil {
		return f.findForReviewFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeWorkLogRepository) Update(ctx context.Context, w *worklog.WorkLog) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, w)
	}
	return nil
}

func (f *fakeWorkLogRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type workLogServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service worklog.Service
	repo    *fakeWorkLogRepository
	outbox  *kafkaMock.MockOutboxRepository
}

func setupWorkLogServiceTest(t *testing.T) *workLogServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	ctrl := gomock.NewController(t)
	repo := &fakeWorkLogRepository{}
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	svc := worklog.NewServiceWithOutbox(db, repo, outbox)

	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		db.Close()
	})

	return &workLogServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func intPtr(v int) *int { return &v }

func TestWorkLogService_Create(t *testing.T) {
	ctx := context.Background()
	owner := staff()

	t.Run("success", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		var persisted worklog.WorkLog
		deps.repo.createFn = func(ctx context.Context, w *worklog.WorkLog) error {
			persisted = *w
			return nil
		}

		resp, err := deps.service.Create(ctx, owner, worklog.CreateWorkLogRequest{
			WorkDate:     "2026-03-02",
			StartTime:    "09:00:00",
			EndTime:      "18:00",
			BreakMinutes: intPtr(60),
		})

		assert.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, owner.ID.String(), resp.UserID)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.Equal(t, 60, resp.BreakMinutes)
		assert.Equal(t, persisted.ID.String(), resp.ID)
		assert.Nil(t, resp.ApprovedBy)
	})

	t.Run("validation error does not open a transaction", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)

		_, err := deps.service.Create(ctx, owner, worklog.CreateWorkLogRequest{
			WorkDate:  "2026-03-02",
			StartTime: "9:00",
			EndTime:   "18:00",
		})
		assert.ErrorIs(t, err, worklogerrors.ErrInvalidStartTime)
	})

	t.Run("persist error rolls back", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, w *worklog.WorkLog) error {
			return errors.New("insert failed")
		}

		_, err := deps.service.Create(ctx, owner, worklog.CreateWorkLogRequest{
			WorkDate:  "2026-03-02",
			StartTime: "09:00",
			EndTime:   "18:00",
		})
		assert.EqualError(t, err, "insert failed")
	})
}

func TestWorkLogService_Submit(t *testing.T) {
	ctx := context.Background()
	owner := staff()

	t.Run("success", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusDraft, owner)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			assert.Equal(t, existing.ID.String(), id)
			w := existing
			return &w, nil
		}
		deps.repo.updateFn = func(ctx context.Context, w *worklog.WorkLog) error {
			assert.Equal(t, worklog.StatusSubmitted, w.Status)
			return nil
		}

		resp, err := deps.service.Submit(ctx, owner, existing.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "submitted", resp.Status)
	})

	t.Run("non owner is denied and nothing is written", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusDraft, owner)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}
		deps.repo.updateFn = func(ctx context.Context, w *worklog.WorkLog) error {
			t.Fatal("update must not be called")
			return nil
		}

		_, err := deps.service.Submit(ctx, staff(), existing.ID.String())
		assert.ErrorIs(t, err, worklogerrors.ErrNotOwner)
	})

	t.Run("unknown id", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Submit(ctx, owner, uuid.NewString())
		assert.ErrorIs(t, err, worklogerrors.ErrWorkLogNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)

		_, err := deps.service.Submit(ctx, owner, "not-a-uuid")
		assert.ErrorIs(t, err, worklogerrors.ErrInvalidWorkLogID)
	})
}

func TestWorkLogService_Update(t *testing.T) {
	ctx := context.Background()
	owner := staff()

	t.Run("rejected log is edited back to draft", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusRejected, owner)
		reason := "wrong hours"
		existing.RejectReason = &reason
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}

		resp, err := deps.service.Update(ctx, owner, existing.ID.String(), worklog.UpdateWorkLogRequest{
			WorkDate:  "2026-03-03",
			StartTime: "10:00",
			EndTime:   "19:00",
		})
		assert.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, "2026-03-03", resp.WorkDate)
		assert.Equal(t, 0, resp.BreakMinutes)
		assert.Nil(t, resp.RejectReason)
	})

	t.Run("approved log is frozen", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusApproved, owner)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}

		_, err := deps.service.Update(ctx, owner, existing.ID.String(), worklog.UpdateWorkLogRequest{
			WorkDate:  "2026-03-03",
			StartTime: "10:00",
			EndTime:   "19:00",
		})
		assert.ErrorIs(t, err, worklogerrors.ErrNotEditable)
	})
}

func TestWorkLogService_Approve(t *testing.T) {
	owner := staff()
	reviewer := manager()

	t.Run("success queues reviewed event", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		ctx := contextutil.WithRequestID(context.Background(), "req-42")
		existing := logIn(worklog.StatusSubmitted, owner)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
				assert.Equal(t, events.WorkLogReviewedTopic, e.Topic)
				assert.Equal(t, events.EventWorkLogApproved, e.EventType)
				assert.Equal(t, existing.ID.String(), e.AggregateID)
				assert.Equal(t, "req-42", e.RequestID)

				var payload events.WorkLogReviewedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, owner.ID.String(), payload.UserID)
				assert.Equal(t, reviewer.ID.String(), payload.ReviewerID)
				assert.Equal(t, "approved", payload.Status)
				assert.Equal(t, "2026-03-02", payload.WorkDate)
				return nil
			})

		resp, err := deps.service.Approve(ctx, reviewer, existing.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.Equal(t, reviewer.ID.String(), *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedAt)
	})

	t.Run("staff cannot approve", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusSubmitted, owner)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}

		_, err := deps.service.Approve(context.Background(), owner, existing.ID.String())
		assert.ErrorIs(t, err, worklogerrors.ErrReviewerRequired)
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusSubmitted, owner)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.Approve(context.Background(), reviewer, existing.ID.String())
		assert.EqualError(t, err, "outbox down")
	})
}

func TestWorkLogService_Reject(t *testing.T) {
	owner := staff()
	reviewer := domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	deps := setupWorkLogServiceTest(t)
	existing := logIn(worklog.StatusSubmitted, owner)
	expectTx(t, deps.sqlMock, true)

	deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
		w := existing
		return &w, nil
	}
	deps.repo.updateFn = func(ctx context.Context, w *worklog.WorkLog) error {
		assert.Equal(t, worklog.StatusRejected, w.Status)
		assert.Equal(t, "break missing", *w.RejectReason)
		return nil
	}
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.EventWorkLogRejected, e.EventType)
			return nil
		})

	resp, err := deps.service.Reject(context.Background(), reviewer, existing.ID.String(), "break missing")
	assert.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, "break missing", *resp.RejectReason)
}

func TestWorkLogService_Delete(t *testing.T) {
	ctx := context.Background()
	owner := staff()

	t.Run("draft is deleted", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusDraft, owner)
		expectTx(t, deps.sqlMock, true)

		deleted := false
		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = id == existing.ID.String()
			return nil
		}

		assert.NoError(t, deps.service.Delete(ctx, owner, existing.ID.String()))
		assert.True(t, deleted)
	})

	t.Run("submitted cannot be deleted", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusSubmitted, owner)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDForUpdateFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			t.Fatal("delete must not be called")
			return nil
		}

		err := deps.service.Delete(ctx, owner, existing.ID.String())
		assert.ErrorIs(t, err, worklogerrors.ErrNotEditable)
	})
}

func TestWorkLogService_Queries(t *testing.T) {
	ctx := context.Background()
	owner := staff()

	t.Run("list mine filters by owner and status", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		deps.repo.findAllFn = func(ctx context.Context, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
			assert.Equal(t, owner.ID.String(), filter.OwnerID)
			assert.Equal(t, worklog.StatusRejected, filter.Status)
			return []worklog.WorkLog{logIn(worklog.StatusRejected, owner)}, nil
		}

		resp, err := deps.service.ListMine(ctx, owner, "rejected")
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("list mine rejects unknown status", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		_, err := deps.service.ListMine(ctx, owner, "SUBMITTED")
		assert.ErrorIs(t, err, worklogerrors.ErrInvalidStatusFilter)
	})

	t.Run("review queue defaults to submitted", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		deps.repo.findForReviewFn = func(ctx context.Context, status worklog.Status) ([]worklog.ReviewRow, error) {
			assert.Equal(t, worklog.StatusSubmitted, status)
			return []worklog.ReviewRow{{
				WorkLog:    logIn(worklog.StatusSubmitted, owner),
				OwnerName:  "Kim",
				OwnerEmail: "kim@pharmacy.test",
			}}, nil
		}

		resp, err := deps.service.ListForReview(ctx, manager(), "")
		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Kim", resp[0].OwnerName)
		assert.Equal(t, "submitted", resp[0].Status)
	})

	t.Run("review queue is reviewer only", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		_, err := deps.service.ListForReview(ctx, owner, "")
		assert.ErrorIs(t, err, worklogerrors.ErrReviewerRequired)
	})

	t.Run("get by id hides other staff logs", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		existing := logIn(worklog.StatusDraft, owner)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*worklog.WorkLog, error) {
			w := existing
			return &w, nil
		}

		_, err := deps.service.GetByID(ctx, staff(), existing.ID.String())
		assert.ErrorIs(t, err, worklogerrors.ErrReadForbidden)

		resp, err := deps.service.GetByID(ctx, manager(), existing.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, existing.ID.String(), resp.ID)
	})

	t.Run("list approved uses date window", func(t *testing.T) {
		deps := setupWorkLogServiceTest(t)
		from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		deps.repo.findAllFn = func(ctx context.Context, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
			assert.Equal(t, worklog.ListFilter{
				OwnerID: owner.ID.String(),
				Status:  worklog.StatusApproved,
				From:    "2026-02-01",
				To:      "2026-03-02",
			}, filter)
			return nil, nil
		}

		_, err := deps.service.ListApproved(ctx, owner.ID, from, to)
		assert.NoError(t, err)
	})
}

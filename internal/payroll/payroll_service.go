package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pharmacy-hr/internal/domain"
	payrollerrors "pharmacy-hr/internal/payroll/errors"
	"pharmacy-hr/internal/profile"
	"pharmacy-hr/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultDays = 30
	MaxDays     = 366

	SummaryCacheTTL       = 10 * time.Minute
	SummaryCacheKeyPrefix = "payroll:summary:"
)

func GetSummaryCacheKey(userID string, days int) string {
	return fmt.Sprintf("%s%s:%d", SummaryCacheKeyPrefix, userID, days)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Summary(ctx context.Context, actor domain.Actor, userID string, days int) (SummaryResponse, error)
	Statement(ctx context.Context, actor domain.Actor, days int) (ExportFile, error)
	Export(ctx context.Context, actor domain.Actor, days int) (ExportFile, error)
	InvalidateUser(ctx context.Context, userID string) error
}

// Options tunes the payroll window. Zero values fall back to DefaultDays,
// UTC and time.Now.
type Options struct {
	DefaultDays int
	// Location is the pharmacy's calendar; "today" is the local date there.
	Location *time.Location
	Now      func() time.Time
}

type service struct {
	repo        Repository
	rdb         *redis.Client
	sf          *singleflight.Group
	defaultDays int
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if opts.DefaultDays < 1 || opts.DefaultDays > MaxDays {
		opts.DefaultDays = DefaultDays
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &service{
		repo:        repo,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		defaultDays: opts.DefaultDays,
		loc:         opts.Location,
		now:         opts.Now,
		logger:      l,
	}
}

func (s *service) resolveDays(days int) (int, error) {
	if days == 0 {
		return s.defaultDays, nil
	}
	if days < 0 || days > MaxDays {
		return 0, payrollerrors.ErrInvalidDays
	}
	return days, nil
}

// window returns [today - days, today] where today is the calendar date in s.loc.
// Both bounds are date values (midnight UTC) to match the work_date column.
func (s *service) window(days int) (time.Time, time.Time) {
	now := s.now().In(s.loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return to.AddDate(0, 0, -days), to
}

func (s *service) Summary(ctx context.Context, actor domain.Actor, userID string, days int) (SummaryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	targetID := actor.ID
	if userID != "" && userID != "me" {
		parsed, err := uuid.Parse(userID)
		if err != nil {
			return SummaryResponse{}, payrollerrors.ErrInvalidUserID
		}
		targetID = parsed
	}
	if !actor.Is(targetID) && !actor.IsReviewer() {
		s.logger.Warn("payroll summary forbidden",
			zap.String("request_id", rid),
			zap.String("actor_id", actor.ID.String()),
			zap.String("user_id", targetID.String()),
		)
		return SummaryResponse{}, payrollerrors.ErrReadForbidden
	}

	days, err := s.resolveDays(days)
	if err != nil {
		return SummaryResponse{}, err
	}

	cacheKey := GetSummaryCacheKey(targetID.String(), days)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp SummaryResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		p, err := s.repo.FindProfile(ctx, targetID.String())
		if err != nil {
			return nil, err
		}

		resp, err := s.compute(ctx, *p, days)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, SummaryCacheTTL).Err(); err != nil {
					s.logger.Warn("payroll summary cache set failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("payroll summary failed",
			zap.String("request_id", rid),
			zap.String("user_id", targetID.String()),
			zap.Error(err),
		)
		return SummaryResponse{}, err
	}

	return v.(SummaryResponse), nil
}

func (s *service) compute(ctx context.Context, p profile.Profile, days int) (SummaryResponse, error) {
	from, to := s.window(days)
	logs, err := s.repo.ListApproved(ctx, p.ID, from, to)
	if err != nil {
		return SummaryResponse{}, err
	}

	sum := Summarize(ShiftsFromWorkLogs(logs), PayConfig{HourlyRate: p.HourlyRate, TaxRate: p.TaxRate})

	resp := SummaryResponse{
		UserID:             p.ID.String(),
		Name:               p.Name,
		Email:              p.Email,
		Days:               days,
		From:               from.Format("2006-01-02"),
		To:                 to.Format("2006-01-02"),
		HourlyRate:         p.HourlyRate,
		TaxRate:            p.TaxRate,
		TotalWorkedMinutes: sum.TotalWorkedMinutes,
		TotalHours:         sum.TotalHours,
		GrossPay:           sum.GrossPay,
		NetPay:             sum.NetPay,
		WorkedDisplay:      FormatDuration(sum.TotalWorkedMinutes),
		GrossDisplay:       FormatKRW(sum.GrossPay),
		NetDisplay:         FormatKRW(sum.NetPay),
		Lines:              make([]LineResponse, len(sum.Lines)),
	}
	for i, l := range sum.Lines {
		resp.Lines[i] = LineResponse(l)
	}
	return resp, nil
}

func (s *service) Statement(ctx context.Context, actor domain.Actor, days int) (ExportFile, error) {
	summary, err := s.Summary(ctx, actor, "", days)
	if err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		FileName:    fmt.Sprintf("payroll-statement-%s.pdf", summary.To),
		ContentType: "application/pdf",
		Content:     buildStatementPDF(statementLines(summary)),
	}, nil
}

var exportHeaders = []string{
	"Name", "Email", "Worked", "Hours", "Hourly Rate", "Gross", "Tax Rate", "Net",
}

// Export builds one workbook row per active profile. Rows are computed fresh, not from cache.
func (s *service) Export(ctx context.Context, actor domain.Actor, days int) (ExportFile, error) {
	rid := contextutil.GetRequestID(ctx)
	if !actor.IsReviewer() {
		return ExportFile{}, payrollerrors.ErrReviewerRequired
	}
	days, err := s.resolveDays(days)
	if err != nil {
		return ExportFile{}, err
	}

	profiles, err := s.repo.FindActiveProfiles(ctx)
	if err != nil {
		s.logger.Error("payroll export list profiles failed", zap.String("request_id", rid), zap.Error(err))
		return ExportFile{}, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Payroll"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return ExportFile{}, payrollerrors.ErrExportFailed
	}
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return ExportFile{}, payrollerrors.ErrExportFailed
	}

	var to string
	for i, p := range profiles {
		resp, err := s.compute(ctx, p, days)
		if err != nil {
			s.logger.Error("payroll export compute failed",
				zap.String("request_id", rid),
				zap.String("user_id", p.ID.String()),
				zap.Error(err),
			)
			return ExportFile{}, err
		}
		to = resp.To

		row := []interface{}{
			resp.Name, resp.Email, resp.WorkedDisplay, resp.TotalHours,
			resp.HourlyRate, resp.GrossPay, resp.TaxRate, resp.NetPay,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return ExportFile{}, payrollerrors.ErrExportFailed
		}
	}
	if to == "" {
		_, end := s.window(days)
		to = end.Format("2006-01-02")
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("payroll export write failed", zap.String("request_id", rid), zap.Error(err))
		return ExportFile{}, payrollerrors.ErrExportFailed
	}

	s.logger.Info("payroll exported",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID.String()),
		zap.Int("rows", len(profiles)),
		zap.Int("days", days),
	)
	return ExportFile{
		FileName:    fmt.Sprintf("payroll-%s-%dd.xlsx", to, days),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}

// InvalidateUser drops every cached window for the user.
func (s *service) InvalidateUser(ctx context.Context, userID string) error {
	if s.rdb == nil {
		return nil
	}

	pattern := SummaryCacheKeyPrefix + userID + ":*"
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}

	s.logger.Debug("payroll cache invalidated", zap.String("user_id", userID))
	return nil
}

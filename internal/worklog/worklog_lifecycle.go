package worklog

import (
	"strings"
	"time"

	"pharmacy-hr/internal/domain"
	"pharmacy-hr/internal/shared/timeofday"
	worklogerrors "pharmacy-hr/internal/worklog/errors"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Details are the owner-editable fields of a work log.
type Details struct {
	WorkDate     string
	StartTime    string
	EndTime      string
	BreakMinutes int
	Note         *string
}

// The transition functions below never touch their input. They return the
// next version of the record or one of the worklogerrors sentinels.

func NewDraft(id uuid.UUID, actor domain.Actor, d Details) (WorkLog, error) {
	w := WorkLog{
		ID:      id,
		OwnerID: actor.ID,
		Status:  StatusDraft,
	}
	if err := applyDetails(&w, d); err != nil {
		return WorkLog{}, err
	}
	return w, nil
}

// Edit overwrites the details. A rejected log goes back to draft and loses its reason.
func Edit(w WorkLog, actor domain.Actor, d Details) (WorkLog, error) {
	if err := checkOwnerMutable(w, actor); err != nil {
		return WorkLog{}, err
	}
	next := w
	if err := applyDetails(&next, d); err != nil {
		return WorkLog{}, err
	}
	next.Status = StatusDraft
	next.RejectReason = nil
	return next, nil
}

func Submit(w WorkLog, actor domain.Actor) (WorkLog, error) {
	if err := checkOwnerMutable(w, actor); err != nil {
		return WorkLog{}, err
	}
	next := w
	next.Status = StatusSubmitted
	return next, nil
}

func Approve(w WorkLog, actor domain.Actor, now time.Time) (WorkLog, error) {
	if err := checkReviewable(w, actor); err != nil {
		return WorkLog{}, err
	}
	next := w
	next.Status = StatusApproved
	next.ReviewerID = uuidPtr(actor.ID)
	next.ReviewedAt = &now
	next.RejectReason = nil
	return next, nil
}

// Reject records the reviewer and an optional reason; blank reasons are stored as null.
func Reject(w WorkLog, actor domain.Actor, reason string, now time.Time) (WorkLog, error) {
	if err := checkReviewable(w, actor); err != nil {
		return WorkLog{}, err
	}
	next := w
	next.Status = StatusRejected
	next.ReviewerID = uuidPtr(actor.ID)
	next.ReviewedAt = &now
	next.RejectReason = trimmedOrNil(reason)
	return next, nil
}

func CheckDelete(w WorkLog, actor domain.Actor) error {
	return checkOwnerMutable(w, actor)
}

// Frozen records report InvalidState to everyone, so state is checked before ownership.
func checkOwnerMutable(w WorkLog, actor domain.Actor) error {
	if !w.Status.IsOwnerMutable() {
		return worklogerrors.ErrNotEditable
	}
	if !actor.Is(w.OwnerID) {
		return worklogerrors.ErrNotOwner
	}
	return nil
}

func checkReviewable(w WorkLog, actor domain.Actor) error {
	if !actor.IsReviewer() {
		return worklogerrors.ErrReviewerRequired
	}
	if w.Status != StatusSubmitted {
		return worklogerrors.ErrNotSubmitted
	}
	return nil
}

func applyDetails(w *WorkLog, d Details) error {
	workDate, start, end, err := validateDetails(d)
	if err != nil {
		return err
	}
	w.WorkDate = workDate
	w.StartTime = start
	w.EndTime = end
	w.BreakMinutes = d.BreakMinutes
	w.Note = nil
	if d.Note != nil {
		w.Note = trimmedOrNil(*d.Note)
	}
	return nil
}

func validateDetails(d Details) (time.Time, string, string, error) {
	workDate := strings.TrimSpace(d.WorkDate)
	if workDate == "" {
		return time.Time{}, "", "", worklogerrors.ErrWorkDateRequired
	}
	date, err := time.Parse(dateLayout, workDate)
	if err != nil {
		return time.Time{}, "", "", worklogerrors.ErrInvalidWorkDate
	}

	if strings.TrimSpace(d.StartTime) == "" {
		return time.Time{}, "", "", worklogerrors.ErrStartTimeRequired
	}
	start, err := timeofday.Normalize(strings.TrimSpace(d.StartTime))
	if err != nil {
		return time.Time{}, "", "", worklogerrors.ErrInvalidStartTime
	}

	if strings.TrimSpace(d.EndTime) == "" {
		return time.Time{}, "", "", worklogerrors.ErrEndTimeRequired
	}
	end, err := timeofday.Normalize(strings.TrimSpace(d.EndTime))
	if err != nil {
		return time.Time{}, "", "", worklogerrors.ErrInvalidEndTime
	}

	if d.BreakMinutes < 0 {
		return time.Time{}, "", "", worklogerrors.ErrNegativeBreak
	}
	return date, start, end, nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func uuidPtr(id uuid.UUID) *uuid.UUID {
	return &id
}

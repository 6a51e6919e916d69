package worklog

import (
	"errors"

	worklogerrors "pharmacy-hr/internal/worklog/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return worklogerrors.ErrWorkLogNotFound
	}
	return err
}

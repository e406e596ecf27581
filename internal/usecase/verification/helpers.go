package verification

import (
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/fme-backend/internal/logger"
	"github.com/ignatzorin/fme-backend/internal/pkg/apperror"
)

func logWarn(fields logrus.Fields, msg string) {
	if logger.Log != nil {
		logger.Log.WithFields(fields).Warn(msg)
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if code := apperror.CodeOf(err); code != "" {
		return string(code)
	}
	return string(apperror.ErrCodeInternal)
}

package render

import (
	"encoding/json"
	"net/http"

	"pledge/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorln(err)
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(H{"code": errCode, "msg": err.Error()}); err != nil {
		logrus.Errorln(err)
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}

// OperationError maps engine errors onto http statuses, keeping the
// protocol error code in the body.
func OperationError(w http.ResponseWriter, err error) {
	code, ok := err.(core.ErrorCode)
	if !ok {
		Error(w, http.StatusInternalServerError, -1, err)
		return
	}

	status := http.StatusBadRequest
	switch code {
	case core.ErrProtocolPaused:
		status = http.StatusForbidden
	case core.ErrReentrantCall:
		status = http.StatusConflict
	case core.ErrOracleUnavailable:
		status = http.StatusServiceUnavailable
	case core.ErrUnknown:
		status = http.StatusInternalServerError
	}

	Error(w, status, int(code), err)
}

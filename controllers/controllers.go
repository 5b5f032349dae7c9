package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"unveil_server/apperrors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

var errMissingMatchID = apperrors.InvalidArg("matchId is required")

// decodeAndValidate parses a JSON body into dst and runs its validation
// tags. Failures come back as InvalidArgument.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "request validation failed", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors to their HTTP status. Internal
// failures are logged with the cause and answered generically.
func respondError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := apperrors.HTTPStatus(err)

	message := err.Error()
	code := apperrors.CodeOf(err)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Errorw("request failed", "error", err)
		message = "internal error"
		code = apperrors.CodeInternal
	}

	respondJSON(w, status, map[string]interface{}{
		"error": message,
		"code":  code,
	})
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zatekoja/bizdirectory/internal/application/services"
	apperrors "github.com/zatekoja/bizdirectory/pkg/errors"
)

// DataSourceHeader tells clients whether a list holds stored or sample data
const DataSourceHeader = "X-Data-Source"

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func setDataSource(w http.ResponseWriter, source services.DataSource) {
	w.Header().Set(DataSourceHeader, string(source))
}

// respondWithAppError maps an application error to a status code
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if code := apperrors.AuthCode(err); code != "" {
		respondWithJSON(w, authStatus(code), map[string]string{
			"error": appErr.Message,
			"code":  code,
		})
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeUnauthorized:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperrors.ErrorTypeStore, apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

func authStatus(code string) int {
	switch code {
	case apperrors.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case apperrors.CodeWeakPassword, apperrors.CodeInvalidEmail, apperrors.CodeInvalidActionCode:
		return http.StatusBadRequest
	case apperrors.CodeInvalidCredential, apperrors.CodeIDTokenRevoked:
		return http.StatusUnauthorized
	case apperrors.CodeUserDisabled:
		return http.StatusForbidden
	case apperrors.CodeUserNotFound:
		return http.StatusNotFound
	case apperrors.CodeNetworkRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"grimoires/internal/httputil"
)

// requireUserID reads the authenticated caller, answering 401 when missing
func requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

// requirePath reads a non-blank path parameter, answering 400 when missing
func requirePath(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := strings.TrimSpace(r.PathValue(name))
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return v, true
}

// parseBody decodes a JSON body, answering 400 (or 413) on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// structureType reads the ?type= query parameter
func structureType(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("type"))
}

package interfaces

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	appErrors "github.com/sebuszqo/ExpenseManager/internal/errors"
)

type pathParamKey string

// ValidatePathParamsMiddleware rejects requests whose named path parameters are
// not uuids and stores the parsed values in the request context.
func (h *CategoryHandler) ValidatePathParamsMiddleware(next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			parsed, err := uuid.Parse(r.PathValue(param))
			if err != nil {
				h.logger.Info(r.Context(), "invalid path parameter", "param", param, "path", r.URL.Path)
				h.respondError(w, http.StatusBadRequest, appErrors.ErrInvalidArgument.Error())
				return
			}
			r = r.WithContext(context.WithValue(r.Context(), pathParamKey(param), parsed))
		}
		next.ServeHTTP(w, r)
	})
}

func pathUUID(r *http.Request, param string) (uuid.UUID, bool) {
	if v, ok := r.Context().Value(pathParamKey(param)).(uuid.UUID); ok {
		return v, true
	}
	parsed, err := uuid.Parse(r.PathValue(param))
	return parsed, err == nil
}

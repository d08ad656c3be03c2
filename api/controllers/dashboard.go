package controllers

import (
	"net/http"

	"github.com/rasyarzq/kasirpos-backend/api/responses"
	"github.com/rasyarzq/kasirpos-backend/internal/dashboard"
	pkgerrors "github.com/rasyarzq/kasirpos-backend/pkg/errors"
	"github.com/rasyarzq/kasirpos-backend/pkg/logger"
)

// DashboardSummary returns today's sales figures and registry counts.
func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

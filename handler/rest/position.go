package rest

import (
	"net/http"

	"pledge/core"
	"pledge/handler/render"
	"pledge/handler/views"

	"github.com/go-chi/chi"
)

func positionHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := chi.URLParam(r, "user")

		position, err := engine.Position(ctx, user)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		debt, err := engine.CurrentDebt(ctx, user)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		score, err := engine.HealthScore(ctx, user)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.Position{
			Position:    *position,
			Debt:        debt,
			HealthScore: score,
		})
	}
}

func healthHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		user := chi.URLParam(r, "user")

		score, err := engine.HealthScore(ctx, user)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"health_score": score})
	}
}

func paramsHandler(paramStr core.ParameterStore, pause core.PauseSwitch) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := paramStr.Read(ctx)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		paused, err := pause.Paused(ctx)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, views.Params{
			Params: *params,
			Paused: paused,
		})
	}
}

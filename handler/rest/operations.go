package rest

import (
	"context"
	"net/http"

	"pledge/handler/param"
	"pledge/handler/render"

	"pledge/core"

	"github.com/shopspring/decimal"
)

type amountRequest struct {
	User   string          `json:"user" valid:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// amountHandler wraps the user+amount mutations that share a shape.
func amountHandler(op func(ctx context.Context, userID string, amount decimal.Decimal) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params amountRequest
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		if err := op(ctx, params.User, params.Amount); err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"status": "ok"})
	}
}

func repayHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params amountRequest
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		repaid, err := engine.Repay(ctx, params.User, params.Amount)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"repaid": repaid})
	}
}

func liquidateHandler(engine core.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Liquidator string `json:"liquidator" valid:"required"`
			Borrower   string `json:"borrower" valid:"required"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		seized, err := engine.Liquidate(ctx, params.Liquidator, params.Borrower)
		if err != nil {
			render.OperationError(w, err)
			return
		}

		render.JSON(w, render.H{"seized": seized})
	}
}

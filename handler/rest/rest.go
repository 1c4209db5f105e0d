package rest

import (
	"errors"
	"net/http"

	"pledge/core"
	"pledge/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(engine core.Engine, paramStr core.ParameterStore, pause core.PauseSwitch) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/positions/{user}", positionHandler(engine))
	router.Get("/positions/{user}/health", healthHandler(engine))
	router.Get("/params", paramsHandler(paramStr, pause))

	router.Post("/deposit", amountHandler(engine.Deposit))
	router.Post("/withdraw", amountHandler(engine.Withdraw))
	router.Post("/borrow", amountHandler(engine.Borrow))
	router.Post("/repay", repayHandler(engine))
	router.Post("/collateral/deposit", amountHandler(engine.DepositCollateral))
	router.Post("/collateral/withdraw", amountHandler(engine.WithdrawCollateral))
	router.Post("/liquidate", liquidateHandler(engine))

	return router
}

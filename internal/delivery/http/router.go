package http

import (
	"net/http"

	"github.com/dolpagu/dispute-service/internal/delivery/http/handlers"
)

func NewRouter(handler *handlers.DisputeHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /disputes", handler.ListDisputes)
	mux.HandleFunc("GET /disputes/{id}/messages", handler.GetTimeline)
	mux.HandleFunc("POST /disputes/{id}/response", handler.SubmitResponse)
	mux.HandleFunc("POST /disputes/{id}/verdict", handler.RequestVerdict)
	mux.HandleFunc("POST /disputes/{id}/accept", handler.AcceptVerdict)
	mux.HandleFunc("POST /disputes/{id}/appeal", handler.Appeal)

	return mux
}

package v1

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bookbid/bookbid/config"
	"github.com/bookbid/bookbid/exchange"
	"github.com/bookbid/bookbid/middleware"
	"github.com/bookbid/bookbid/store"
)

type Handler struct {
	store  *store.Store
	engine *exchange.Engine
	secret []byte
	router *mux.Router
}

func NewHandler(store *store.Store, engine *exchange.Engine, secret []byte) *Handler {
	return &Handler{
		store:  store,
		engine: engine,
		secret: secret,
	}
}

func Server(router *mux.Router, handler *Handler) {
	handler.router = router

	sr := router.PathPrefix("/api").Subrouter()
	mw := middleware.NewMiddleware(config.Opts.CORSOrigins())
	sr.Use(mw.HandleCORS)
	sr.Use(mw.LoggingRequest)
	sr.Use(NewAuthInterceptor(handler.store, handler.secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/register", handler.register).Methods(http.MethodPost)
	sr.HandleFunc("/login", handler.login).Methods(http.MethodPost)
	sr.HandleFunc("/logout", handler.logout).Methods(http.MethodPost)
	sr.HandleFunc("/me", handler.me).Methods(http.MethodGet)

	sr.HandleFunc("/books/me", handler.myBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books/me/add", handler.addBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/me/remove", handler.removeBook).Methods(http.MethodPost)

	sr.HandleFunc("/exchange", handler.exchangeList).Methods(http.MethodGet)
	sr.HandleFunc("/exchange/search", handler.exchangeSearch).Methods(http.MethodGet)
	sr.HandleFunc("/exchange/request", handler.sendRequest).Methods(http.MethodPost)

	sr.HandleFunc("/profile", handler.getProfile).Methods(http.MethodGet)
	sr.HandleFunc("/profile", handler.patchProfile).Methods(http.MethodPatch)

	sr.HandleFunc("/requests", handler.listRequests).Methods(http.MethodGet)
	sr.HandleFunc("/requests/{id}/accept", handler.acceptRequest).Methods(http.MethodPost)
}

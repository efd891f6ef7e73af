package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mbeier/famsync/internal/api/http/handler"
	"github.com/mbeier/famsync/internal/api/http/middleware"
)

// Router assembles the HTTP route table from handlers and middleware.
type Router struct {
	accounts *handler.Account
	families *handler.Family
	chat     *handler.Chat
	auth     *middleware.Authenticate
	logging  *middleware.Logging
}

// New creates a Router.
func New(
	accounts *handler.Account,
	families *handler.Family,
	chat *handler.Chat,
	auth *middleware.Authenticate,
	logging *middleware.Logging,
) *Router {
	return &Router{
		accounts: accounts,
		families: families,
		chat:     chat,
		auth:     auth,
		logging:  logging,
	}
}

// Register builds the route table.
func (rt *Router) Register() *mux.Router {
	r := mux.NewRouter()
	r.Use(rt.logging.Handler)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes.
	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/register", rt.accounts.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", rt.accounts.Login).Methods(http.MethodPost)
	api.HandleFunc("/families/{code}", rt.families.Lookup).Methods(http.MethodGet)
	api.HandleFunc("/deeplink", rt.families.DeepLink).Methods(http.MethodGet)

	// Routes requiring a session token.
	authed := api.NewRoute().Subrouter()
	authed.Use(rt.auth.Handler)
	authed.HandleFunc("/logout", rt.accounts.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/session", rt.accounts.Session).Methods(http.MethodGet)
	authed.HandleFunc("/families", rt.families.Create).Methods(http.MethodPost)
	authed.HandleFunc("/families/{code}/join", rt.families.Join).Methods(http.MethodPost)
	authed.HandleFunc("/families/{code}/members", rt.families.Attach).Methods(http.MethodPost)
	authed.HandleFunc("/families/{id}/chat", rt.chat.List).Methods(http.MethodGet)
	authed.HandleFunc("/families/{id}/chat", rt.chat.Append).Methods(http.MethodPost)
	authed.HandleFunc("/families/{id}/chat/remote", rt.chat.LoadRemote).Methods(http.MethodGet)

	return r
}

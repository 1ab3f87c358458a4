package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
)

// RouterDeps bundles everything NewRouter needs to wire the routes.
type RouterDeps struct {
	Logger        *slog.Logger
	TokenVerifier domain.TokenVerifier
	Authz         domain.AuthzService

	Events        *controllers.EventController
	Subscriptions *controllers.SubscriptionController
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	AuthzAdmin    *controllers.AuthzController
	Comments      *controllers.CommentController

	CORSOrigins []string
}

// NewRouter initializes the HTTP router with all application routes.
// Public routes: event listing, search, stats, event detail, comment listing,
// and the auth endpoints. Everything else requires a Bearer token; admin
// routes additionally require the named permission.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(deps.TokenVerifier, deps.Logger)
	perm := func(p string) func(http.HandlerFunc) http.HandlerFunc {
		check := middleware.RequirePermission(deps.Authz, p, deps.Logger)
		return func(next http.HandlerFunc) http.HandlerFunc {
			return auth(check(next))
		}
	}

	// Events
	mux.HandleFunc("GET /events", deps.Events.ListEvents)
	mux.HandleFunc("GET /events/search", deps.Events.SearchEvents)
	mux.HandleFunc("GET /events/stats", deps.Events.GetEventStats)
	mux.HandleFunc("GET /events/{eventID}", deps.Events.GetEventByID)
	mux.HandleFunc("POST /events", perm(domain.PermManageEvents)(deps.Events.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", perm(domain.PermManageEvents)(deps.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", perm(domain.PermManageEvents)(deps.Events.DeleteEvent))

	// Subscriptions
	mux.HandleFunc("POST /events/{eventID}/subscription", auth(deps.Subscriptions.Subscribe))
	mux.HandleFunc("DELETE /events/{eventID}/subscription", auth(deps.Subscriptions.Unsubscribe))
	mux.HandleFunc("GET /events/{eventID}/subscription", auth(deps.Subscriptions.IsSubscribed))
	mux.HandleFunc("GET /events/{eventID}/subscribers", perm(domain.PermViewSubscribers)(deps.Subscriptions.ListSubscribers))

	// Comments
	mux.HandleFunc("GET /events/{eventID}/comments", deps.Comments.ListComments)
	mux.HandleFunc("POST /events/{eventID}/comments", auth(deps.Comments.AddComment))
	mux.HandleFunc("PATCH /comments/{commentID}/hidden", perm(domain.PermManageEvents)(deps.Comments.SetCommentHidden))
	mux.HandleFunc("DELETE /comments/{commentID}", auth(deps.Comments.DeleteComment))

	// Auth
	mux.HandleFunc("POST /auth/signup", deps.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", deps.Auth.Login)
	mux.HandleFunc("GET /auth/confirm", deps.Auth.ConfirmEmail)
	mux.HandleFunc("POST /auth/resend-confirmation", deps.Auth.ResendConfirmation)

	// Users
	mux.HandleFunc("GET /users/me", auth(deps.Users.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(deps.Users.UpdateMe))
	mux.HandleFunc("GET /users", perm(domain.PermManageUsers)(deps.Users.ListUsers))
	mux.HandleFunc("DELETE /users/{userID}", perm(domain.PermManageUsers)(deps.Users.DeleteUser))
	mux.HandleFunc("POST /users/{userID}/roles", perm(domain.PermManageRoles)(deps.Users.AssignRole))
	mux.HandleFunc("DELETE /users/{userID}/roles", perm(domain.PermManageRoles)(deps.Users.RemoveRole))

	// Permission administration
	mux.HandleFunc("GET /admin/permissions", perm(domain.PermConfigurePermissions)(deps.AuthzAdmin.ListPermissions))
	mux.HandleFunc("POST /admin/roles/{roleCode}/permissions", perm(domain.PermConfigurePermissions)(deps.AuthzAdmin.GrantPermission))
	mux.HandleFunc("DELETE /admin/roles/{roleCode}/permissions", perm(domain.PermConfigurePermissions)(deps.AuthzAdmin.RevokePermission))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(deps.Logger, handler)
	handler = middleware.CORS(deps.CORSOrigins, handler)
	return handler
}

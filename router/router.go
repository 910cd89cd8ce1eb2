package router

import (
	"go-notes-api/handler"
	"go-notes-api/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(userHandler *handler.UserHandler, noteHandler *handler.NoteHandler, authService *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.Handler())

	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(userHandler.Login))
	mux.Handle("POST /refresh", handler.ErrorHandlingMiddleware(userHandler.Refresh))

	authRequired := handler.AuthMiddleware(authService)
	mux.Handle("POST /logout", authRequired(handler.ErrorHandlingMiddleware(userHandler.Logout)))
	mux.Handle("GET /notes", authRequired(handler.ErrorHandlingMiddleware(noteHandler.ListNotes)))
	mux.Handle("POST /notes", authRequired(handler.ErrorHandlingMiddleware(noteHandler.CreateNote)))
	mux.Handle("DELETE /notes/{id}", authRequired(handler.ErrorHandlingMiddleware(noteHandler.DeleteNote)))

	return mux
}

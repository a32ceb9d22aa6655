package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "whuchat/client/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the fixture
// server's routes.
func NewRouter(chatHandler *ChatHandler, gateHandler *GateHandler, streamHandler *StreamHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID) // Injects a unique request ID into the context.
	r.Use(middleware.RealIP)    // Sets the remote address to the real IP from proxy headers.
	r.Use(middleware.Logger)    // Logs the start and end of each request with useful info.
	r.Use(middleware.Recoverer) // Recovers from panics and returns a 500 error.

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// A simple health check endpoint, handy for scripts that wait for the
	// fixture server before starting the client.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON routes get a request timeout so client connections
		// cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Gate ---
			r.Get("/gate/get_chatserver", gateHandler.HandleGetChatServer)

			// --- Chat ---
			r.Post("/chat/send_message", chatHandler.HandleSendMessage)
			r.Post("/chat/browse_messages", chatHandler.HandleBrowseMessages)
			r.Post("/chat/history", chatHandler.HandleHistory)
		})

		// The websocket route must NOT have a timeout: it holds the
		// connection open for the whole scripted response.
		r.Group(func(r chi.Router) {
			r.Get("/ws/tran_ans", streamHandler.HandleStream)
		})
	})

	return r
}

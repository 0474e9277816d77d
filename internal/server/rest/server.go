// Package rest exposes the PetKeeper services over a JSON REST API routed
// by chi.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/logging"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/services"
	"github.com/dmitrijs2005/petkeeper/internal/server/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout bounds how long in-flight requests may drain on shutdown.
const ShutdownTimeout = 5 * time.Second

// UserService is the account and session logic behind the user routes.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ResolveSession(ctx context.Context, accessToken string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// PetService is the pet logic behind the pet routes.
type PetService interface {
	Create(ctx context.Context, ownerID string, pet *models.Pet) (*models.Pet, error)
	Update(ctx context.Context, ownerID, petID string, upd models.PetUpdate) (*models.Pet, error)
	Delete(ctx context.Context, ownerID, petID string) (*models.Pet, error)
	Get(ctx context.Context, ownerID, petID string) (*models.Pet, error)
	List(ctx context.Context, ownerID string) ([]*models.Pet, error)
	ImageUploadURL(ctx context.Context, ownerID, petID string) (string, string, error)
	ImageDownloadURL(ctx context.Context, ownerID, petID string) (string, error)
}

// ReminderService is the reminder logic behind the reminder routes.
type ReminderService interface {
	Create(ctx context.Context, userID string, reminder *models.Reminder) (*models.Reminder, error)
	List(ctx context.Context, userID, petID string) ([]*models.Reminder, error)
	Get(ctx context.Context, userID, reminderID string) (*models.Reminder, error)
	Delete(ctx context.Context, userID, reminderID string) (*models.Reminder, error)
}

// Options carries everything the HTTP server needs from the outside.
type Options struct {
	Address   string
	Logger    logging.Logger
	Users     UserService
	Pets      PetService
	Reminders ReminderService
	Validator *validation.Validator
	Cookies   CookieSettings
	Throttle  *LoginThrottle
	Metrics   *Metrics

	// TrustedProxies may set X-Forwarded-For for throttling purposes.
	TrustedProxies ProxyList
}

// Server serves the PetKeeper REST API.
type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	pets      PetService
	reminders ReminderService
	validator *validation.Validator
	cookies   CookieSettings
	throttle  *LoginThrottle
	metrics   *Metrics

	trustedProxies ProxyList
}

// NewServer builds a Server from o. A nil Metrics gets a fresh registry.
func NewServer(o Options) *Server {
	if o.Metrics == nil {
		o.Metrics = NewMetrics()
	}
	return &Server{
		address:   o.Address,
		logger:    o.Logger.With("module", "http_server"),
		users:     o.Users,
		pets:      o.Pets,
		reminders: o.Reminders,
		validator: o.Validator,
		cookies:   o.Cookies,
		throttle:  o.Throttle,
		metrics:   o.Metrics,

		trustedProxies: o.TrustedProxies,
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/registeruser", s.registerUser)
		r.Post("/loginuser", s.loginUser)
		r.Post("/logoutuser", s.logoutUser)
		r.Post("/refreshtoken", s.refreshToken)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Delete("/deleteuser", s.deleteUser)

			r.Post("/createpet", s.createPet)
			r.Put("/updatepet/{petId}", s.updatePet)
			r.Delete("/deletepet/{petId}", s.deletePet)
			r.Get("/getpets", s.getPets)
			r.Get("/getpet/{petId}", s.getPet)
			r.Post("/uploadpetimage/{petId}", s.uploadPetImage)
			r.Get("/getpetimage/{petId}", s.getPetImage)

			r.Post("/createreminder", s.createReminder)
			r.Get("/getreminders", s.getReminders)
			r.Get("/getreminder/{reminderId}", s.getReminder)
			r.Delete("/deletereminder/{reminderId}", s.deleteReminder)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

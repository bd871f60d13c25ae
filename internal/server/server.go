package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"plantfriend/internal/config"
	"plantfriend/internal/database"
	"plantfriend/internal/handlers"
	"plantfriend/internal/repositories"
	"plantfriend/internal/routes"
	"plantfriend/internal/services"
	"plantfriend/internal/views"
)

const (
	httpsPort = 443
	httpPort  = 80
)

type Server struct {
	http     *http.Server
	redirect *http.Server
	pool     *pgxpool.Pool
	certPath string
}

// New connects to the database, loads the schema snapshot and wires the
// router. A snapshot failure aborts startup.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gormDB, err := database.OpenGorm(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	// Dependency injection
	schemaRepo := repositories.NewSchemaRepository(pool, cfg.DBSchema)
	rowRepo := repositories.NewRowRepository(pool)
	historyRepo := repositories.NewHistoryRepository(gormDB)

	schemaService := services.NewSchemaService(schemaRepo)
	if _, err := schemaService.Load(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	tableService := services.NewTableService(schemaService, rowRepo, historyRepo)

	router, err := NewRouter(schemaService, tableService, cfg.CORSOrigins)
	if err != nil {
		pool.Close()
		return nil, err
	}

	s := &Server{pool: pool}
	if cfg.IsProd {
		s.certPath = cfg.CertPath
		s.http = newHTTPServer(httpsPort, router)
		s.redirect = newHTTPServer(httpPort, http.HandlerFunc(redirectToHTTPS))
	} else {
		s.http = newHTTPServer(cfg.Port, router)
	}
	return s, nil
}

// NewRouter builds the gin engine serving the pages and the JSON API.
func NewRouter(schemaService *services.SchemaService, tableService *services.TableService, corsOrigins []string) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.Default()
	router.SetHTMLTemplate(tmpl)

	routes.RegisterRoutes(router, routes.Handlers{
		Page:    handlers.NewPageHandler(tableService),
		Table:   handlers.NewTableHandler(tableService),
		Schema:  handlers.NewSchemaHandler(schemaService),
		History: handlers.NewHistoryHandler(tableService),
	}, corsOrigins)

	return router, nil
}

func newHTTPServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

func (s *Server) Addr() string {
	return s.http.Addr
}

// ListenAndServe blocks until the main listener stops. In production it
// serves TLS and runs the HTTP redirect listener alongside.
func (s *Server) ListenAndServe() error {
	if s.certPath == "" {
		log.Printf("HTTP server running on %s", s.http.Addr)
		return s.http.ListenAndServe()
	}

	go func() {
		log.Printf("HTTP redirect server listening on %s", s.redirect.Addr)
		if err := s.redirect.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("redirect server error: %v", err)
		}
	}()

	log.Printf("HTTPS server running on %s", s.http.Addr)
	return s.http.ListenAndServeTLS(
		filepath.Join(s.certPath, "fullchain.pem"),
		filepath.Join(s.certPath, "privkey.pem"),
	)
}

func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.redirect != nil {
		errs = append(errs, s.redirect.Shutdown(ctx))
	}
	errs = append(errs, s.http.Shutdown(ctx))
	s.pool.Close()
	log.Println("Database connection pool closed")
	return errors.Join(errs...)
}

func redirectToHTTPS(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusMovedPermanently)
}

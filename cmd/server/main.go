package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mytheresa/go-storefront/app/catalog"
	"github.com/mytheresa/go-storefront/app/categories"
	"github.com/mytheresa/go-storefront/app/middleware"
	"github.com/mytheresa/go-storefront/app/notify"
	"github.com/mytheresa/go-storefront/app/render"
	"github.com/mytheresa/go-storefront/app/session"
	"github.com/mytheresa/go-storefront/app/storefront"
	"github.com/mytheresa/go-storefront/config"
	"github.com/mytheresa/go-storefront/database"
	"github.com/mytheresa/go-storefront/models"
	"github.com/redis/go-redis/v9"
)

const notifyTimeout = 30 * time.Second

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	store, closeStore := sessionStore(cfg)
	defer closeStore()

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPConfigured() {
		notifier = notify.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
		log.Printf("Sending payment instructions via %s", cfg.SMTPHost)
	} else {
		log.Println("SMTP not configured, payment instructions will be logged")
	}
	async := notify.NewAsync(notifier, notifyTimeout)

	items := models.NewItemsRepository(db)
	sessions := session.NewManager(store, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())

	servers := []*http.Server{{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Recover(middleware.LogRequests(publicRoutes(cfg.MediaDir, items, sessions, renderer, async))),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Environment: %s", cfg.AppEnv)

	if cfg.AdminAPIEnabled {
		servers = append(servers, &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           middleware.Recover(middleware.LogRequests(adminRoutes(items, models.NewCategoriesRepository(db)))),
			ReadHeaderTimeout: 10 * time.Second,
		})
		log.Printf("Admin API listening on %s", cfg.AdminAddr)
	} else {
		log.Println("Admin API disabled")
	}

	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to start server on %s: %v", srv.Addr, err)
			}
		}(srv)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error on %s: %v", srv.Addr, err)
		}
	}
	async.Wait()
	log.Println("Server stopped")
}

// publicRoutes serves the storefront and media. The JSON admin API is never mounted here.
func publicRoutes(mediaDir string, items storefront.ItemProvider, sessions storefront.SessionManager, renderer storefront.Renderer, notifier notify.Notifier) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir))))
	storefront.NewHandler(items, sessions, renderer, notifier).Routes(mux)
	return mux
}

func adminRoutes(items catalog.ItemProvider, cats categories.CategoryProvider) *http.ServeMux {
	mux := http.NewServeMux()
	catalog.NewCatalogHandler(items).Routes(mux)
	categories.NewCategoryHandler(cats).Routes(mux)
	return mux
}

// sessionStore falls back to the in-memory store when redis is unreachable.
func sessionStore(cfg *config.Config) (session.Store, func()) {
	noop := func() {}
	if cfg.SessionBackend != "redis" {
		log.Println("Using in-memory session store")
		return session.NewMemoryStore(), noop
	}

	opt := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Println("Failed to parse Redis URL:", err)
			log.Println("Using in-memory session store")
			return session.NewMemoryStore(), noop
		}
		opt = parsed
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("Redis connection failed:", err)
		log.Println("Using in-memory session store")
		_ = client.Close()
		return session.NewMemoryStore(), noop
	}

	log.Println("Redis connected")
	return session.NewRedisStore(client), func() { _ = client.Close() }
}

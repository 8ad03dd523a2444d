package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Stratum/internal/auth"
	"Stratum/internal/cache"
	"Stratum/internal/calc/batch"
	beam "Stratum/internal/calc/beam"
	"Stratum/internal/calc/check"
	"Stratum/internal/calc/inbox"
	"Stratum/internal/calc/loads"
	"Stratum/internal/calc/report"
	"Stratum/internal/calc/section"
	"Stratum/internal/calc/solver"
	"Stratum/internal/config"
	"Stratum/internal/repo"

	"github.com/gorilla/mux"
	"github.com/sgostarter/i/l"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

type app struct {
	cfg     config.Config
	repo    repo.Repository
	service *beam.Service
	logger  l.Wrapper
}

func HandleList(mux *mux.Router, a app) {
	authEnv := &auth.Authenv{
		JWTkey:   []byte(a.cfg.TokenKey),
		Repo:     a.repo,
		Insecure: a.cfg.InsecureCookies,
		Logger:   a.logger,
	}
	limiter := auth.NewIPRateLimiter(rate.Limit(a.cfg.RateLimit), a.cfg.RateBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	beamH := &beam.Handler{Service: a.service}
	checkH := &check.Handler{Analyzer: a.service, DeflectionLimitRatio: a.cfg.DeflectionLimitRatio}
	reportH := &report.Handler{Analyzer: a.service, Logger: a.logger}
	batchH := &batch.Handler{Analyzer: a.service, Logger: a.logger}
	sectionH := &section.Handler{}
	loadsH := &loads.Handler{Analyzer: a.service}
	solverH := &solver.Handler{}

	tools := api.PathPrefix("/tools").Subrouter()
	tools.Use(authEnv.AuthMiddleware)

	tools.HandleFunc("/beam/analyze", beamH.Analyze).Methods("POST")
	tools.HandleFunc("/beam/check", checkH.Calc).Methods("POST")
	tools.HandleFunc("/beam/report/pdf", reportH.Generate).Methods("POST")
	tools.HandleFunc("/beam/batch", batchH.Batch).Methods("POST")
	tools.HandleFunc("/beam/import", batchH.Import).Methods("POST")
	tools.HandleFunc("/section/calc", sectionH.Calc).Methods("POST")
	tools.HandleFunc("/loads/calc", loadsH.Calc).Methods("POST")
	tools.HandleFunc("/solver/roots", solverH.Roots).Methods("POST")

	historyH := &beam.HistoryHandler{Service: a.service, Repo: a.repo, Logger: a.logger}

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/analyses", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/analyses", historyH.List).Methods("GET")
	secureApi.HandleFunc("/analyses/{id:[0-9]+}", historyH.Get).Methods("GET")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	mux.PathPrefix("/auth/").
		Handler(authEnv.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	mux.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := l.NewConsoleLoggerWrapper()

	path := os.Getenv("STRATUM_CONFIG")
	if path == "" {
		path = "stratum.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("load config")
	}

	db, err := repo.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("open database")
	}
	defer db.Close()
	userRepo := repo.NewPostgresUserDB(db)
	if err := userRepo.Migrate(ctx); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("migrate database")
	}

	store, closeCache := cache.Open(ctx, cfg.RedisAddr, cfg.CacheTTL, logger)
	defer closeCache()
	service := beam.NewService(store, cfg.Segments, logger)

	router := mux.NewRouter()
	HandleList(router, app{cfg: cfg, repo: userRepo, service: service, logger: logger})
	handler := CORS(router)

	if cfg.InboxDir != "" {
		watcher, err := inbox.New(cfg.InboxDir, service, logger)
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("start inbox")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithFields(l.ErrorField(err)).Error("inbox stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	logger.WithFields(l.StringField("addr", cfg.Addr)).Info("starting server")
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey); err != nil && err != http.ErrServerClosed {
			logger.WithFields(l.ErrorField(err)).Error("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("shutdown")
	}
	logger.Info("server stopped")

	wg.Wait()
}

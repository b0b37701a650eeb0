package api

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/reelkeep/reelkeep/internal/auth"
	"github.com/reelkeep/reelkeep/internal/cache"
	"github.com/reelkeep/reelkeep/internal/config"
	"github.com/reelkeep/reelkeep/internal/db"
	"github.com/reelkeep/reelkeep/internal/ffmpeg"
	"github.com/reelkeep/reelkeep/internal/frames"
	"github.com/reelkeep/reelkeep/internal/httputil"
	"github.com/reelkeep/reelkeep/internal/jobs"
	"github.com/reelkeep/reelkeep/internal/movies"
	"github.com/reelkeep/reelkeep/internal/paths"
	"github.com/reelkeep/reelkeep/internal/player"
	"github.com/reelkeep/reelkeep/internal/scanner"
	"github.com/reelkeep/reelkeep/internal/search"
	"github.com/reelkeep/reelkeep/internal/settings"
	"github.com/reelkeep/reelkeep/internal/transcribe"
	"github.com/reelkeep/reelkeep/internal/users"
	"github.com/reelkeep/reelkeep/internal/version"
	"github.com/reelkeep/reelkeep/internal/watcher"
	"github.com/reelkeep/reelkeep/internal/watchhistory"
)

type Server struct {
	config    *config.Config
	db        *db.DB
	auth      *auth.Auth
	queue     *jobs.Queue
	wsHub     *WSHub
	ver       version.Info
	router    chi.Router
	fsWatcher *watcher.Watcher

	movieRepo      *movies.Repository
	pathRepo       *paths.Repository
	frameRepo      *frames.Repository
	transcriptRepo *transcribe.Repository
	settingsRepo   *settings.Repository
	scanner        *scanner.Scanner
	transcriber    *transcribe.Transcriber
	extractor      *ffmpeg.FrameExtractor
}

func NewServer(cfg *config.Config, database *db.DB, queue *jobs.Queue, ver version.Info) (*Server, error) {
	authService, err := auth.NewAuth(cfg.JWTSecret, time.Duration(cfg.JWTExpiresIn)*time.Hour)
	if err != nil {
		return nil, err
	}

	movieRepo := movies.NewRepository(database.DB)
	pathRepo := paths.NewRepository(database.DB)
	frameRepo := frames.NewRepository(database.DB)
	transcriptRepo := transcribe.NewRepository(database.DB)
	settingsRepo := settings.NewRepository(database.DB)
	userRepo := users.NewRepository(database.DB)
	watchRepo := watchhistory.NewRepository(database.DB)
	launchRepo := player.NewRepository(database.DB)
	searchRepo := search.NewRepository(database.DB)
	searchCache := cache.New(cfg.RedisAddr)

	sc := scanner.NewScanner(cfg.FFprobePath, movieRepo)
	transcriber := transcribe.NewTranscriber(cfg.WhisperPath, cfg.WhisperModel, cfg.FFmpegPath)
	extractor := ffmpeg.NewFrameExtractor(cfg.FFmpegPath, filepath.Join(cfg.DataDir, "frames"))
	launcher := player.NewLauncher(cfg.PlayerPath)

	fw, err := watcher.New(pathRepo, func(pathID uuid.UUID) {
		if _, err := queue.EnqueueScan(pathID); err != nil {
			log.Printf("[watcher] failed to enqueue scan for %s: %v", pathID, err)
		}
	})
	if err != nil {
		log.Printf("[watcher] filesystem watching unavailable: %v", err)
		fw = nil
	}
	var fsRefresher paths.Refresher
	if fw != nil {
		fsRefresher = fw
	}

	s := &Server{
		config:         cfg,
		db:             database,
		auth:           authService,
		queue:          queue,
		wsHub:          NewWSHub(),
		ver:            ver,
		fsWatcher:      fw,
		movieRepo:      movieRepo,
		pathRepo:       pathRepo,
		frameRepo:      frameRepo,
		transcriptRepo: transcriptRepo,
		settingsRepo:   settingsRepo,
		scanner:        sc,
		transcriber:    transcriber,
		extractor:      extractor,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(authService.Middleware)

	r.Get("/health", s.handleHealth)
	r.Get("/api/v1/version", s.handleVersion)
	r.Get("/api/v1/ws", s.handleWebSocket)

	r.Mount("/api/v1/auth", auth.NewHandler(database.DB, authService).Router())

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Mount("/api/v1/users", users.NewHandler(userRepo).Router())
		r.Mount("/api/v1/movies", movies.NewHandler(movieRepo, frameRepo, extractor).Router())
		r.Mount("/api/v1/search", search.NewHandler(searchRepo, movieRepo, transcriptRepo, searchCache).Router())
		r.Mount("/api/v1/paths", paths.NewHandler(pathRepo, queue, fsRefresher).Router())
		r.Mount("/api/v1/settings", settings.NewHandler(settingsRepo).Router())
		r.Mount("/api/v1/watch", watchhistory.NewHandler(watchRepo).Router())
		r.Mount("/api/v1/player", player.NewHandler(launcher, launchRepo, movieRepo).Router())
		r.Mount("/api/v1/frames", frames.NewHandler(frameRepo, queue, cfg.DataDir).Router())
		r.Mount("/api/v1/transcripts", transcribe.NewHandler(transcriptRepo, queue, transcriber).Router())
	})

	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) WSHub() *WSHub { return s.wsHub }

// Watcher returns the filesystem watcher, or nil when fsnotify could
// not be initialized.
func (s *Server) Watcher() *watcher.Watcher { return s.fsWatcher }

func (s *Server) Scanner() *scanner.Scanner { return s.scanner }

func (s *Server) PathRepo() *paths.Repository { return s.pathRepo }

func (s *Server) MovieRepo() *movies.Repository { return s.movieRepo }

func (s *Server) FrameRepo() *frames.Repository { return s.frameRepo }

func (s *Server) TranscriptRepo() *transcribe.Repository { return s.transcriptRepo }

func (s *Server) SettingsRepo() *settings.Repository { return s.settingsRepo }

func (s *Server) Transcriber() *transcribe.Transcriber { return s.transcriber }

func (s *Server) FrameExtractor() *ffmpeg.FrameExtractor { return s.extractor }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(); err != nil {
		httputil.WriteError(w, http.StatusServiceUnavailable, "DB_DOWN", "database unreachable")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.ver)
}

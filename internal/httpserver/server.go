package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/AlimanIrawan/zhiji-sub000/internal/ai"
	"github.com/AlimanIrawan/zhiji-sub000/internal/auth"
	"github.com/AlimanIrawan/zhiji-sub000/internal/blob"
	"github.com/AlimanIrawan/zhiji-sub000/internal/config"
	"github.com/AlimanIrawan/zhiji-sub000/internal/food"
	"github.com/AlimanIrawan/zhiji-sub000/internal/garmin"
	"github.com/AlimanIrawan/zhiji-sub000/internal/profiles"
	"github.com/AlimanIrawan/zhiji-sub000/internal/reports"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage/memory"
	"github.com/AlimanIrawan/zhiji-sub000/internal/storage/postgres"
	"github.com/AlimanIrawan/zhiji-sub000/internal/summary"
	"github.com/AlimanIrawan/zhiji-sub000/internal/weights"
)

// appStorage объединяет все storage-интерфейсы бэкенда.
// Memory и Postgres реализации удовлетворяют его целиком.
type appStorage interface {
	storage.Storage
	storage.FoodRecordsStorage
	storage.GarminStorage
	storage.SummariesStorage
	storage.WeightsStorage
	storage.ReportsStorage
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        appStorage
	authMiddleware *auth.Middleware
	resyncer       *garmin.Resyncer
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Profile API
	profileService := profiles.NewService(s.storage)
	profileHandler := profiles.NewHandlers(profileService)

	// GET /v1/profile - get profile
	s.mux.HandleFunc("GET /v1/profile", profileHandler.HandleGet)

	// PUT /v1/profile - create or update profile (merge semantics)
	s.mux.HandleFunc("PUT /v1/profile", profileHandler.HandlePut)

	// Blob stores (meal photos follow BLOB_MODE, reports may override via REPORTS_MODE)
	photosBlobStore, reportsBlobStore := s.initBlobStores()

	// Food API
	aiProvider := ai.NewProvider(s.config)
	foodService := food.NewService(
		s.storage,
		aiProvider,
		photosBlobStore,
		s.config.UploadMaxMB,
		s.config.UploadAllowedMime,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
		s.config.Blob.S3.PresignTTLSeconds,
	)
	foodHandler := food.NewHandlers(foodService)

	// POST /v1/food/records - create food record
	s.mux.HandleFunc("POST /v1/food/records", foodHandler.HandleCreate)

	// GET /v1/food/records?date= - list records for a day
	s.mux.HandleFunc("GET /v1/food/records", foodHandler.HandleList)

	// GET /v1/food/records/recent - recent records across days
	s.mux.HandleFunc("GET /v1/food/records/recent", foodHandler.HandleListRecent)

	// GET /v1/food/records/{id} - get one record
	s.mux.HandleFunc("GET /v1/food/records/{id}", foodHandler.HandleGet)

	// PATCH /v1/food/records/{id} - partial update
	s.mux.HandleFunc("PATCH /v1/food/records/{id}", foodHandler.HandleUpdate)

	// DELETE /v1/food/records/{id} - delete record
	s.mux.HandleFunc("DELETE /v1/food/records/{id}", foodHandler.HandleDelete)

	// POST /v1/food/analyze - AI analysis (JSON text or multipart photo)
	s.mux.HandleFunc("POST /v1/food/analyze", foodHandler.HandleAnalyze)

	// POST /v1/food/records/{id}/photo - attach meal photo
	s.mux.HandleFunc("POST /v1/food/records/{id}/photo", foodHandler.HandleUploadPhoto)

	// GET /v1/food/records/{id}/photo - download meal photo
	s.mux.HandleFunc("GET /v1/food/records/{id}/photo", foodHandler.HandleGetPhoto)

	// Garmin API
	garminClient := garmin.NewClient(s.config.GarminAPIBaseURL, s.config.GarminAPIToken, s.config.GarminTimeoutSeconds)
	garminService := garmin.NewService(garminClient, s.storage)
	garminHandler := garmin.NewHandlers(garminService)

	// POST /v1/garmin/sync - pull from vendor API or accept pushed payload
	s.mux.HandleFunc("POST /v1/garmin/sync", garminHandler.HandleSync)

	// GET /v1/garmin/daily?date= - one day snapshot
	s.mux.HandleFunc("GET /v1/garmin/daily", garminHandler.HandleGetDaily)

	// GET /v1/garmin/recent?days= - recent snapshots, newest first
	s.mux.HandleFunc("GET /v1/garmin/recent", garminHandler.HandleListRecent)

	if s.config.GarminResyncEnabled {
		s.resyncer = garmin.NewResyncer(garminService, "default", s.config.GarminResyncHour, s.config.GarminResyncMinute)
	}

	// Weights API
	weightsService := weights.NewService(s.storage)
	weightsHandler := weights.NewHandlers(weightsService)

	// POST /v1/weights - upsert morning/evening weight
	s.mux.HandleFunc("POST /v1/weights", weightsHandler.HandleUpsert)

	// GET /v1/weights?date= - weight entry for a day
	s.mux.HandleFunc("GET /v1/weights", weightsHandler.HandleGet)

	// Summary API
	summaryService := summary.NewService(
		s.storage,
		s.storage,
		s.storage,
		s.config.DefaultProteinGoalG,
		s.config.DefaultStepsGoal,
	).WithWeightsStorage(s.storage).WithSummariesStorage(s.storage)
	summaryHandler := summary.NewHandlers(summaryService)

	// GET /v1/summary/day?date= - fresh daily summary
	s.mux.HandleFunc("GET /v1/summary/day", summaryHandler.HandleGetDaySummary)

	// POST /v1/summary/day/recompute - recompute and persist
	s.mux.HandleFunc("POST /v1/summary/day/recompute", summaryHandler.HandleRecomputeDaySummary)

	// GET /v1/summary/range?from=&to= - summaries for a period
	s.mux.HandleFunc("GET /v1/summary/range", summaryHandler.HandleGetRangeSummaries)

	// Reports API
	reportsService := reports.NewService(
		s.storage,
		summaryService,
		reportsBlobStore,
		s.config.ReportsFontPath,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	// POST /v1/reports - generate report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// initBlobStores initializes blob stores for meal photos and reports.
// Photos always follow BLOB_MODE, reports may override via REPORTS_MODE.
func (s *Server) initBlobStores() (photosStore blob.Store, reportsStore blob.Store) {
	photosCfg := s.config.Blob
	photosCfg.ReportsModeSet = false
	photosCfg.ReportsMode = photosCfg.Mode

	log.Printf("INFO blob: initializing photos store (BLOB_MODE=%s)", photosCfg.Mode)
	baseStore, baseMode, err := blob.NewBlobStore(photosCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize photos store: %v", err)
	}
	log.Printf("INFO blob: photos blob mode: %s", baseMode)

	effectiveReportsMode := s.config.Blob.EffectiveReportsMode()
	if !s.config.Blob.ReportsModeSet || effectiveReportsMode == s.config.Blob.Mode {
		log.Printf("INFO blob: reports blob mode: %s (same as photos)", baseMode)
		return baseStore, baseStore
	}

	log.Printf("INFO blob: initializing reports store (REPORTS_MODE=%s, override from BLOB_MODE=%s)", effectiveReportsMode, s.config.Blob.Mode)
	reportsCfg := s.config.Blob
	reportsCfg.Mode = effectiveReportsMode
	reportsCfg.ReportsModeSet = false
	reportsCfg.ReportsMode = effectiveReportsMode

	reportsBlobStore, reportsMode, err := blob.NewBlobStore(reportsCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}

	// If override resolves to same mode, reuse the base store/client.
	if reportsMode == baseMode {
		log.Printf("INFO blob: reports blob mode: %s (resolved to same as photos, reusing store)", reportsMode)
		return baseStore, baseStore
	}

	log.Printf("INFO blob: reports blob mode: %s (separate store)", reportsMode)
	return baseStore, reportsBlobStore
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	if s.resyncer != nil {
		go s.resyncer.Run(context.Background())
		log.Printf("Garmin resync scheduled daily at %02d:%02d", s.config.GarminResyncHour, s.config.GarminResyncMinute)
	}

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/askrindo-ai-console/internal/console/handler"
	"github.com/xela07ax/askrindo-ai-console/internal/infra"
	"go.uber.org/zap"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	registry *prometheus.Registry

	// Обработчики бизнес-доменов
	chatHandler      *handler.ChatHandler      // /v1/chat
	uwHandler        *handler.WorkflowHandler  // /v1/underwriting
	claimsHandler    *handler.WorkflowHandler  // /v1/claims
	knowledgeHandler *handler.KnowledgeHandler // /v1/knowledge
	auditHandler     *handler.AuditHandler     // /v1/audit
	dashHandler      *handler.DashboardHandler // /api/v1/dashboard
	notifyHandler    *handler.NotifyHandler    // /v1/notifications
}

// NewConsoleServer инициализирует сервер консоли со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	registry *prometheus.Registry,
	chatH *handler.ChatHandler,
	uwH *handler.WorkflowHandler,
	claimsH *handler.WorkflowHandler,
	knowledgeH *handler.KnowledgeHandler,
	auditH *handler.AuditHandler,
	dashH *handler.DashboardHandler,
	notifyH *handler.NotifyHandler,
) *ConsoleServer {
	s := &ConsoleServer{
		router:           chi.NewRouter(),
		logger:           logger.Named("console-api"),
		cfg:              cfg,
		registry:         registry,
		chatHandler:      chatH,
		uwHandler:        uwH,
		claimsHandler:    claimsH,
		knowledgeHandler: knowledgeH,
		auditHandler:     auditH,
		dashHandler:      dashH,
		notifyHandler:    notifyH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- Глобальные инфраструктурные Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Healthcheck и метрики для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	// Dashboard & Stats
	r.Get("/api/v1/dashboard/stats", s.dashHandler.GetStats)

	// Продуктовый чат-бот
	r.Route("/v1/chat", func(r chi.Router) {
		r.Get("/messages", s.chatHandler.History)
		r.Post("/messages", s.chatHandler.Send)
	})

	// База знаний чат-бота
	r.Post("/v1/knowledge/documents", s.knowledgeHandler.Upload)

	// Конвейеры: андеррайтинг и убытки (одинаковая поверхность)
	mountWorkflow := func(r chi.Router, h *handler.WorkflowHandler) {
		r.Get("/", h.State)
		r.Post("/submit", h.Submit)
		r.Post("/advance", h.Advance)
		r.Post("/reset", h.Reset)
		r.Post("/decision", h.Decide)
		r.Post("/documents", h.Attach)
	}
	r.Route("/v1/underwriting", func(r chi.Router) { mountWorkflow(r, s.uwHandler) })
	r.Route("/v1/claims", func(r chi.Router) { mountWorkflow(r, s.claimsHandler) })

	// Аудит и Логи (Observability)
	r.Get("/v1/audit", s.auditHandler.GetLogs)
	r.Get("/v1/audit/{id}", s.auditHandler.GetEntry)

	// Уведомления оператору
	r.Get("/v1/notifications/current", s.notifyHandler.Current)
	r.Delete("/v1/notifications/current", s.notifyHandler.Dismiss)
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

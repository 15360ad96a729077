package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xela07ax/askrindo-ai-console/internal/audit"
	"github.com/xela07ax/askrindo-ai-console/internal/chat"
	"github.com/xela07ax/askrindo-ai-console/internal/connectors"
	"github.com/xela07ax/askrindo-ai-console/internal/console/handler"
	"github.com/xela07ax/askrindo-ai-console/internal/console/server"
	"github.com/xela07ax/askrindo-ai-console/internal/console/service"
	"github.com/xela07ax/askrindo-ai-console/internal/domain"
	"github.com/xela07ax/askrindo-ai-console/internal/infra"
	"github.com/xela07ax/askrindo-ai-console/internal/knowledge"
	"github.com/xela07ax/askrindo-ai-console/internal/notify"
	"github.com/xela07ax/askrindo-ai-console/internal/repository/postgres"
	"github.com/xela07ax/askrindo-ai-console/internal/workflow"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Метрики
	registry := prometheus.NewRegistry()
	metrics := workflow.NewMetrics(registry)

	trailOpts := audit.TrailOptions{
		BufferSize:    cfg.Engine.AuditBufferSize,
		BatchSize:     cfg.Engine.AuditBatchSize,
		FlushInterval: cfg.Engine.AuditFlushInterval,
		BufferFill:    metrics.AuditBufferFill,
	}

	// 3. Внешние приемники аудита (оба опциональны)
	var sinks []audit.Recorder
	var trails []*audit.Trail

	if cfg.Database.URL != "" {
		repo, err := postgres.NewAuditRepo(cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			logger.Fatal("failed to open postgres", zap.Error(err))
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := repo.Ping(pingCtx); err != nil {
			logger.Fatal("database unreachable", zap.Error(err))
		}
		cancel()
		defer repo.Close()

		trail := audit.NewTrail(repo, logger, trailOpts)
		trail.Start()
		trails = append(trails, trail)
		sinks = append(sinks, trail)
		logger.Info("audit export to postgres enabled")
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		feed := audit.NewRedisFeed(rdb, infra.RedisChanAuditFeed, logger)
		// Фид тоже асинхронный: публикация не должна тормозить воркфлоу
		trail := audit.NewTrail(feed, logger, trailOpts)
		trail.Start()
		trails = append(trails, trail)
		sinks = append(sinks, trail)
		logger.Info("audit feed to redis enabled", zap.String("channel", infra.RedisChanAuditFeed))
	}

	// 4. Журнал аудита
	ledger := audit.NewLedger(logger, sinks...)
	if cfg.Console.SeedDemo {
		ledger.Seed(audit.DemoEntries())
	}

	// 5. Шлюз агентов: мок для демо или HTTP + предохранитель
	var gateway connectors.Gateway
	if cfg.Agents.Mock {
		gateway = connectors.NewMockGateway(connectors.MockAgentIDs{
			Chatbot:       cfg.Agents.ChatbotID,
			Risk:          cfg.Agents.RiskID,
			PolicyDraft:   cfg.Agents.PolicyDraftID,
			ClaimFraud:    cfg.Agents.ClaimFraudID,
			ClaimDecision: cfg.Agents.ClaimDecisionID,
		})
		logger.Warn("agent gateway running in mock mode")
	} else {
		gateway = connectors.NewGuard(connectors.NewHTTPGateway(cfg.Agents.Endpoint, cfg.Agents.Timeout, logger))
	}

	// 6. Доменные компоненты
	notifier := notify.New(cfg.Console.NotifyTTL, logger)
	operator := cfg.Console.Operator

	uwProc := workflow.NewProcess(
		workflow.Underwriting(cfg.Agents.RiskID, cfg.Agents.PolicyDraftID),
		gateway, ledger, notifier, metrics, operator, logger,
	)
	uwProc.SetForm(domain.SampleUnderwritingForm())
	uwProc.SetDocuments(domain.SampleUnderwritingDocuments())

	claimsProc := workflow.NewProcess(
		workflow.Claims(cfg.Agents.ClaimFraudID, cfg.Agents.ClaimDecisionID),
		gateway, ledger, notifier, metrics, operator, logger,
	)
	claimsProc.SetForm(domain.SampleClaimForm())
	claimsProc.SetDocuments(domain.SampleClaimDocuments())

	chatSession := chat.NewSession(cfg.Agents.ChatbotID, gateway, ledger, operator, logger)
	kbClient := knowledge.NewClient(cfg.Knowledge.Endpoint, cfg.Knowledge.BaseID, knowledge.Options{
		Attempts: cfg.Knowledge.Attempts,
		Delay:    cfg.Knowledge.Delay,
		Timeout:  cfg.Knowledge.Timeout,
	}, logger)

	// 7. Сервисы и обработчики (Dependency Injection)
	workflowSvc := service.NewWorkflowService(logger, uwProc, claimsProc)
	chatSvc := service.NewChatService(chatSession)
	auditSvc := service.NewAuditService(ledger)
	dashSvc := service.NewDashboardService(ledger)
	knowledgeSvc := service.NewKnowledgeService(kbClient, notifier, logger)

	srv := server.NewConsoleServer(
		cfg, logger, registry,
		handler.NewChatHandler(chatSvc),
		handler.NewWorkflowHandler(workflowSvc, domain.ModuleUnderwriting),
		handler.NewWorkflowHandler(workflowSvc, domain.ModuleClaims),
		handler.NewKnowledgeHandler(knowledgeSvc),
		handler.NewAuditHandler(auditSvc),
		handler.NewDashboardHandler(dashSvc),
		handler.NewNotifyHandler(notifier),
	)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("console started", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-stop // Ждем сигнал
	logger.Info("console stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	// Дожимаем буферы аудита во внешние приемники
	for _, trail := range trails {
		trail.Stop()
	}
	logger.Info("console exited properly")
}

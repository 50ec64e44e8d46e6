package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/director74/pos-terminal/config"
	httpController "github.com/director74/pos-terminal/internal/controller/http"
	rabbitmqController "github.com/director74/pos-terminal/internal/controller/rabbitmq"
	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/internal/seed"
	"github.com/director74/pos-terminal/internal/usecase"
	"github.com/director74/pos-terminal/internal/usecase/webapi"
	"github.com/director74/pos-terminal/pkg/auth"
	"github.com/director74/pos-terminal/pkg/database"
	"github.com/director74/pos-terminal/pkg/errors"
	"github.com/director74/pos-terminal/pkg/messaging"
	"github.com/director74/pos-terminal/pkg/rabbitmq"
)

const (
	posEventsExchange = "pos_events"
	catalogSyncQueue  = "pos.catalog.sync"
)

// App представляет приложение терминала
type App struct {
	config     *config.Config
	httpServer *http.Server
	jwtManager *auth.JWTManager
	db         *gorm.DB
	rabbitMQ   *rabbitmq.RabbitMQ

	posUseCase     *usecase.PosUseCase
	paymentUseCase *usecase.PaymentUseCase
	printerUseCase *usecase.PrinterUseCase
	scannerUseCase *usecase.ScannerUseCase
}

func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		return nil, errors.AppendPrefix(err, "не удалось подключиться к базе данных")
	}

	if err := database.AutoMigrateWithCleanup(db,
		&entity.Product{},
		&entity.CartItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Transaction{},
		&entity.PrintJob{},
		&entity.Cashier{},
		&entity.TerminalSettings{},
	); err != nil {
		return nil, errors.AppendPrefix(err, "не удалось выполнить миграцию")
	}

	rmq, err := messaging.InitRabbitMQ(cfg.RabbitMQ)
	if err != nil {
		database.CloseDB(db)
		return nil, errors.AppendPrefix(err, "не удалось подключиться к RabbitMQ")
	}

	exchanges := map[string]string{
		posEventsExchange: "topic",
	}
	queues := map[string]map[string]string{
		catalogSyncQueue: {
			posEventsExchange: "catalog.sync",
		},
	}
	if err := messaging.SetupExchangesAndQueues(rmq, exchanges, queues); err != nil {
		database.CloseDB(db)
		rmq.Close()
		return nil, errors.AppendPrefix(err, "ошибка при настройке RabbitMQ")
	}

	jwtConfig := auth.NewConfig(cfg.JWT.SigningKey)
	jwtConfig.TokenTTL = cfg.JWT.TokenTTL
	jwtConfig.TokenIssuer = cfg.JWT.TokenIssuer
	jwtConfig.TokenAudiences = cfg.JWT.TokenAudiences
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Репозитории
	productRepo := repo.NewProductRepository(db)
	cartRepo := repo.NewCartRepository(db)
	orderRepo := repo.NewOrderRepository(db)
	txRepo := repo.NewTransactionRepository(db)
	printJobRepo := repo.NewPrintJobRepository(db)
	cashierRepo := repo.NewCashierRepository(db)
	settingsRepo := repo.NewSettingsRepository(db)

	// Клиенты внешних сервисов
	paymentClient := webapi.NewPaymentClient(cfg.Services.PaymentURL)
	printClient := webapi.NewPrintClient(cfg.Services.PrintURL)
	catalogClient := webapi.NewCatalogClient(cfg.Services.CatalogURL)

	authMiddleware := auth.NewAuthMiddleware(jwtManager)

	// Use cases экранов
	authUseCase := usecase.NewAuthUseCase(cashierRepo, jwtManager)
	posUseCase := usecase.NewPosUseCase(productRepo, cartRepo)
	paymentUseCase := usecase.NewPaymentUseCase(orderRepo, txRepo, cartRepo, paymentClient, rmq, posEventsExchange)
	printerUseCase := usecase.NewPrinterUseCase(printJobRepo, orderRepo, printClient)
	scannerUseCase := usecase.NewScannerUseCase(productRepo, catalogClient, posUseCase)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, txRepo, printJobRepo)
	catalogUseCase := usecase.NewCatalogUseCase(productRepo, catalogClient)
	statisticsUseCase := usecase.NewStatisticsUseCase(orderRepo)
	settingsUseCase := usecase.NewSettingsUseCase(settingsRepo, cfg.TerminalID)

	// Наполнение пустого каталога
	seeder := seed.NewSeeder(productRepo, catalogClient)
	if err := seeder.SeedIfEmpty(context.Background()); err != nil {
		log.Printf("ВНИМАНИЕ: ошибка наполнения каталога: %v", err)
	}

	// Консьюмер синхронизации каталога
	syncConsumer := rabbitmqController.NewSyncConsumer(productRepo, rmq, nil)
	if err := syncConsumer.Setup(catalogSyncQueue); err != nil {
		log.Printf("ВНИМАНИЕ: ошибка при настройке консьюмера синхронизации каталога: %v", err)
	}

	// HTTP контроллеры
	authHandler := httpController.NewAuthHandler(authUseCase)
	posHandler := httpController.NewPosHandler(posUseCase, authMiddleware)
	paymentHandler := httpController.NewPaymentHandler(paymentUseCase, authMiddleware)
	printerHandler := httpController.NewPrinterHandler(printerUseCase, authMiddleware)
	scannerHandler := httpController.NewScannerHandler(scannerUseCase, authMiddleware)
	orderHandler := httpController.NewOrderHandler(orderUseCase, statisticsUseCase, settingsUseCase, authMiddleware)
	catalogHandler := httpController.NewCatalogHandler(catalogUseCase, authMiddleware)

	router := gin.Default()
	router.Use(errors.RecoveryMiddleware())
	router.Use(errors.ErrorMiddleware())
	router.NoRoute(errors.NotFoundHandler())
	router.NoMethod(errors.MethodNotAllowedHandler())

	authHandler.RegisterRoutes(router)
	posHandler.RegisterRoutes(router)
	paymentHandler.RegisterRoutes(router)
	printerHandler.RegisterRoutes(router)
	scannerHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &App{
		config:         cfg,
		httpServer:     httpServer,
		jwtManager:     jwtManager,
		db:             db,
		rabbitMQ:       rmq,
		posUseCase:     posUseCase,
		paymentUseCase: paymentUseCase,
		printerUseCase: printerUseCase,
		scannerUseCase: scannerUseCase,
	}, nil
}

// Run запускает приложение
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		log.Printf("HTTP сервер запущен на порту %s", a.config.HTTP.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Ошибка запуска HTTP сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Println("Получен сигнал завершения, закрываем приложение...")
	case <-ctx.Done():
		log.Println("Контекст завершен, закрываем приложение...")
	}

	return a.Shutdown()
}

// Shutdown корректно завершает работу приложения
func (a *App) Shutdown() error {
	errGroup := errors.NewErrorGroup()

	if a.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.httpServer.Shutdown(ctx); err != nil {
			errGroup.AddPrefix(err, "ошибка при закрытии HTTP сервера")
		}
	}

	// Контейнеры экранов закрываются после HTTP сервера: новые интенты
	// уже не поступают, начатые дорабатывают
	if a.scannerUseCase != nil {
		a.scannerUseCase.Close()
	}
	if a.posUseCase != nil {
		a.posUseCase.Close()
	}
	if a.paymentUseCase != nil {
		a.paymentUseCase.Close()
	}
	if a.printerUseCase != nil {
		a.printerUseCase.Close()
	}

	if a.rabbitMQ != nil {
		a.rabbitMQ.Close()
	}

	if a.db != nil {
		if err := database.CloseDB(a.db); err != nil {
			errGroup.AddPrefix(err, "ошибка при закрытии соединения с базой данных")
		}
	}

	if errGroup.HasErrors() {
		errors.LogError(errGroup, "Shutdown")
		return errGroup
	}

	log.Println("Приложение успешно завершено")
	return nil
}

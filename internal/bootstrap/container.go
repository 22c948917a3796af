package bootstrap

import (
	"context"
	"log"

	"doc-knowledge-be/internal/config"
	"doc-knowledge-be/internal/controller"
	"doc-knowledge-be/internal/pkg/logger"
	"doc-knowledge-be/internal/pkg/mailer"
	"doc-knowledge-be/internal/repository/memory"
	"doc-knowledge-be/internal/repository/unitofwork"
	"doc-knowledge-be/internal/service"
	adminEvents "doc-knowledge-be/pkg/admin/events"
	"doc-knowledge-be/pkg/admin/user"
	"doc-knowledge-be/pkg/embedding"
	"doc-knowledge-be/pkg/llm/factory"
	pkgNats "doc-knowledge-be/pkg/nats"
	"doc-knowledge-be/pkg/retrieval/compose"
	"doc-knowledge-be/pkg/retrieval/engine"
	"doc-knowledge-be/pkg/retrieval/scope"
	"doc-knowledge-be/pkg/retrieval/synthesis"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const embedTopic = "document.embed"

type Container struct {
	// Controllers
	SearchController   controller.ISearchController
	AdminController    controller.IAdminController
	AuthController     controller.IAuthController
	DocumentController controller.IDocumentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared facades
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "openai" {
		embeddingProvider = embedding.NewOpenAIProvider(
			cfg.Ai.OpenAIAPIKey,
			cfg.Ai.OpenAIBaseURL,
			cfg.Ai.OpenAIEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OPENAI (%s)", cfg.Ai.OpenAIEmbedModel)
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbedModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbedModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIAPIKey,
		cfg.Ai.OpenAIBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	var searchCache *memory.SearchCache
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis, search cache disabled: %v", err)
	} else {
		searchCache = memory.NewSearchCache(rdb, cfg.Search.CacheTTL)
	}

	// 5. Ingestion pipeline
	publisherService := service.NewPublisherService(embedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		embedTopic,
		uowFactory,
		embeddingProvider,
	)

	// 6. Retrieval pipeline
	retrievalEngine := engine.NewVectorEngine(uowFactory, embeddingProvider, sysLogger, cfg.Search.TopK, cfg.Search.MinSimilarity)
	resolver := scope.NewResolver()
	composer := compose.NewComposer()

	answerCacheTTL := cfg.Search.CacheTTL
	if !cfg.Search.AnswerCacheOn {
		answerCacheTTL = 0
	}
	synthLogger := logger.NewIsolatedLogger("logs/synthesis.log")
	synthesizer := synthesis.NewSynthesizer(
		llmProvider,
		synthLogger,
		cfg.Ai.SynthesisTimeout,
		cfg.Ai.SynthesisWindow,
		answerCacheTTL,
	)

	searchService := service.NewSearchService(
		resolver,
		retrievalEngine,
		composer,
		synthesizer,
		searchCache,
		sysLogger,
		cfg.Search.TopK,
	)

	// 7. Admin domain
	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	userManager := user.NewManager(sysLogger, adminEventPublisher, cfg.Auth.CredentialSize)

	adminService := service.NewAdminService(
		uowFactory,
		sysLogger,
		userManager,
		emailService,
	)

	authService := service.NewAuthService(uowFactory, cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	documentService := service.NewDocumentService(uowFactory, publisherService, resolver)

	// 8. Controllers
	return &Container{
		SearchController:   controller.NewSearchController(searchService),
		AdminController:    controller.NewAdminController(adminService),
		AuthController:     controller.NewAuthController(authService),
		DocumentController: controller.NewDocumentController(documentService),

		ConsumerService: consumerService,

		Logger: sysLogger,
	}
}

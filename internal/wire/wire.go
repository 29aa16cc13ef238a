package wire

import (
	"Murmur/internal/api"
	"Murmur/internal/api/config"
	"Murmur/internal/api/handler"
	"Murmur/internal/gateway"
	"Murmur/internal/job"
	"Murmur/internal/pkg/cron"
	"Murmur/internal/pkg/es"
	"Murmur/internal/pkg/kafka"
	pkgmongo "Murmur/internal/pkg/mongo"
	"Murmur/internal/repository"
	"Murmur/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	ChatService  service.ChatService
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	postRepo := repository.NewPostRepo(db)
	postActionRepo := repository.NewPostActionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	metricRepo := repository.NewMetricRepo(db)
	chatRepo := repository.NewChatRepo(db)

	messageRepo := pkgmongo.NewMessageRepo(mongoDB)
	notificationRepo := pkgmongo.NewNotificationRepo(mongoDB)
	esUserRepo := es.NewUserRepo()

	producer, err := kafka.NewAnalyticsProducer(cfg)
	if err != nil {
		return nil, err
	}

	// Hub 先于依赖它的服务创建，领域依赖通过 Bind 晚注入
	hub := gateway.NewHub(cfg.Gateway.SendBufferSize, time.Duration(cfg.Gateway.WriteTimeout)*time.Second)

	analyticsService := service.NewAnalyticsService(producer)
	userService := service.NewUserService(userRepo, esUserRepo, analyticsService)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub)
	userFollowService := service.NewUserFollowService(userFollowRepo, notificationService)
	postService := service.NewPostService(postRepo, postActionRepo, userRepo, userFollowRepo, notificationService, analyticsService, hub)
	postActionService := service.NewPostActionService(postActionRepo, postRepo, userRepo, notificationService, analyticsService)
	reportService := service.NewReportService(reportRepo, analyticsService)
	statsService := service.NewStatsService(metricRepo, hub)
	chatService := service.NewChatService(chatRepo, messageRepo, userRepo, hub, analyticsService)
	hub.Bind(userService, chatService)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		UserFollowHandler:   handler.NewUserFollowHandler(userFollowService, userService),
		PostHandler:         handler.NewPostHandler(postService),
		PostActionHandler:   handler.NewPostActionHandler(postActionService),
		ChatHandler:         handler.NewChatHandler(chatService),
		WsHandler:           handler.NewWsHandler(hub),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		ReportHandler:       handler.NewReportHandler(reportService),
		MediaHandler:        handler.NewMediaHandler(),
		AdminHandler:        handler.NewAdminHandler(userService, reportService, statsService),
	}

	router := api.SetupRouter(handlers)

	cronMgr := cron.NewCronManager(
		job.NewMetricFlushJob(metricRepo),
		job.NewMediaCleanupJob(),
		job.NewNotificationCleanJob(notificationRepo),
	)

	kafkaMgr, err := kafka.NewConsumerManager(cfg)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		ChatService:  chatService,
	}, nil
}

package cmd

import (
	"log/slog"

	httpadapter "posttracker/internal/adapters/in/http"
	"posttracker/internal/adapters/out/postgres"
	"posttracker/internal/adapters/out/postgres/postrepo"
	"posttracker/internal/adapters/out/rabbitmq"
	"posttracker/internal/adapters/out/redis/postcache"
	"posttracker/internal/adapters/out/smtp"
	"posttracker/internal/adapters/out/viacep"
	"posttracker/internal/core/application/notifications"
	"posttracker/internal/core/application/usecases/commands"
	"posttracker/internal/core/application/usecases/queries"
	"posttracker/internal/core/domain/services"
	"posttracker/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	cache      *postcache.RedisPostCache
	broker     *rabbitmq.Broker
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		cache:      postcache.NewRedisPostCache(redisClient, config.CacheTTL),
		broker: rabbitmq.NewBroker(config.RabbitMQURL, rabbitmq.Topology{
			Exchange: config.Exchange,
			Bindings: []rabbitmq.Binding{
				{Queue: config.CreatedQueue, RoutingKey: config.CreatedRoutingKey},
				{Queue: config.OnCourseQueue, RoutingKey: config.OnCourseRoutingKey},
			},
		}, config.RabbitMQDialTimeout, logger),
		logger: logger,
	}
}

// Broker exposes the shared broker so main can connect and close it.
func (c *CompositionRoot) Broker() *rabbitmq.Broker {
	return c.broker
}

func (c *CompositionRoot) CreateCreatePostCommandHandler() commands.CreatePostCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePostCommandHandler(
		f,
		viacep.NewResolver(c.config.ViaCEPURL),
		c.broker,
		services.NewTrackingCodeAllocator(),
		c.config.CreatedRoutingKey,
		commands.SystemClock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateTransitionPostCommandHandler() commands.TransitionPostCommandHandler {
	var f commands.PostUoWFactory = FuncPostUoWFactory(func() commands.PostUoW {
		return c.uowFactory.Create()
	})
	handshake := notifications.NewHandshake(
		c.broker,
		c.broker,
		smtp.NewSender(smtp.Config{
			Host:     c.config.SMTPHost,
			Port:     c.config.SMTPPort,
			Username: c.config.SMTPUser,
			Password: c.config.SMTPPassword,
			From:     c.config.SMTPFrom,
			Timeout:  c.config.SMTPTimeout,
		}, c.logger),
		c.config.HandshakeTimeout,
		c.logger,
	)
	return commands.NewTransitionPostCommandHandler(
		f,
		handshake,
		c.cache,
		commands.Routes{
			CreatedQueue:       c.config.CreatedQueue,
			CreatedRoutingKey:  c.config.CreatedRoutingKey,
			OnCourseQueue:      c.config.OnCourseQueue,
			OnCourseRoutingKey: c.config.OnCourseRoutingKey,
		},
		commands.SystemClock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetPostQueryHandler() queries.GetPostQueryHandler {
	return queries.NewGetPostQueryHandler(postrepo.NewGormPostRepository(c.gormDB), c.cache, c.logger)
}

func (c *CompositionRoot) CreateGetOverduePostsQueryHandler() queries.GetOverduePostsQueryHandler {
	return queries.NewGetOverduePostsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateGetOverduePostsQueryHandler(),
		c.config.OverdueSchedule,
		commands.SystemClock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateServer() *httpadapter.Server {
	createPost := c.CreateCreatePostCommandHandler()
	transitionPost := c.CreateTransitionPostCommandHandler()
	return httpadapter.NewServer(
		&createPost,
		&transitionPost,
		c.CreateGetPostQueryHandler(),
		c.CreateGetOverduePostsQueryHandler(),
		commands.SystemClock,
		c.logger,
	)
}

type FuncPostUoWFactory func() commands.PostUoW

func (f FuncPostUoWFactory) Create() commands.PostUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campusgames/fanzone-api/config"
	"github.com/campusgames/fanzone-api/filter"
	"github.com/campusgames/fanzone-api/models"
	"github.com/campusgames/fanzone-api/realtime"
	"github.com/campusgames/fanzone-api/services"
	v1 "github.com/campusgames/fanzone-api/v1"
)

func main() {

	// Load the .env file
	if err := godotenv.Load(); err != nil {
		fmt.Println("Error loading .env file: ", err)
	}

	// Create the process logger
	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalln("Failed to create logger: ", err)
	}
	defer logger.Sync()

	// Load the configuration from the environment
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	//================================================================================
	// Create the database connection
	//================================================================================

	// Get the database driver for the database string
	dbDriver := ParseDatabaseDriver(cfg.Database.URL)
	if dbDriver == nil {
		logger.Fatal("unrecognized database url. Check DB_URL environment variable")
	}

	// Create the database connection
	db, err := gorm.Open(dbDriver, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	// Migrate the schema
	db.AutoMigrate(
		&models.Account{},
		&models.BannedWord{},
		&models.ChatMessage{},
		&models.ChatReaction{},
		&models.Match{},
		&models.MatchVote{},
		&models.MutedUser{},
		&models.Sport{},
		&models.Stream{},
		&models.Team{},
	)

	//================================================================================
	// Setup the WebSockets server
	//================================================================================

	// Create the server
	socketIoServer := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: checkOrigin(cfg.HTTP.AllowedOrigins),
			},
			&websocket.Transport{
				CheckOrigin: checkOrigin(cfg.HTTP.AllowedOrigins),
			},
		},
	})
	go socketIoServer.Serve()

	//================================================================================
	// Create all the service instances
	//================================================================================

	// The hub carries every table change to the realtime subscribers
	hub := realtime.NewHub(logger)

	accountsService := &services.AccountsService{DB: db}
	authTokensService := &services.AuthTokensService{
		DB:            db,
		SigningPepper: cfg.Auth.SigningPepper,
	}
	chatService := &services.ChatService{
		DB:     db,
		Hub:    hub,
		Filter: filter.Default,
		Log:    logger,
	}
	scheduleService := &services.ScheduleService{DB: db, Hub: hub}
	streamsService := &services.StreamsService{DB: db}
	votesService := &services.VotesService{DB: db, Hub: hub}
	tallyService := &services.TallyService{
		Votes: votesService,
		Hub:   hub,
		Log:   logger,
	}
	chatMirrorService := &services.ChatMirrorService{
		Chat: chatService,
		Hub:  hub,
		Log:  logger,
	}
	socketsService := &services.SocketsService{
		Server:     socketIoServer,
		Hub:        hub,
		ChatMirror: chatMirrorService,
		Tally:      tallyService,
		Log:        logger,
	}

	// Do some final update on the sockets service
	// Needed because it has a circular relationship with other services
	socketsService.Setup()

	//================================================================================
	// Setup the Gin HTTP router
	//================================================================================

	// Create the Gin router
	r := gin.Default()

	// Configure CORS for the API
	corsCfg := cors.DefaultConfig()
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.HTTP.AllowedOrigins
	}
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Accept", "User-Agent", "Authorization")
	r.Use(cors.New(corsCfg))

	// Create the API instance
	api := &v1.Server{
		AccountsService:   accountsService,
		AuthTokensService: authTokensService,
		ChatService:       chatService,
		ScheduleService:   scheduleService,
		StreamsService:    streamsService,
		VotesService:      votesService,
		TallyService:      tallyService,
	}

	// Mount the API routes
	api.Setup(r.Group("v1"))

	// Create a mux to serve both the HTTP and Socket.IO servers
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", socketIoServer)
	mux.Handle("/", r)

	// Run the server
	logger.Info("listening", zap.String("addr", cfg.HTTP.ListenAddr))
	if err := http.ListenAndServe(cfg.HTTP.ListenAddr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}

}

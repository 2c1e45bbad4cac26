package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/gin-gonic/gin"

	"github.com/vibtellect/user-service/internal/api/http/httpctx"
	"github.com/vibtellect/user-service/internal/api/http/router"
	"github.com/vibtellect/user-service/internal/config"
	"github.com/vibtellect/user-service/internal/event"
	"github.com/vibtellect/user-service/internal/hasher"
	"github.com/vibtellect/user-service/internal/logger"
	"github.com/vibtellect/user-service/internal/model"
	"github.com/vibtellect/user-service/internal/repository/dynamo"
	"github.com/vibtellect/user-service/internal/server"
	"github.com/vibtellect/user-service/internal/service"
	"github.com/vibtellect/user-service/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	awsCfg, err := config.NewAWSConfig(ctx, cfg.AWS)
	if err != nil {
		logger.Fatal("failed to load aws config", "error", err)
	}

	dynamoClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
	snsClient := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})

	userRepo := dynamo.NewUserRepository(dynamoClient, cfg.AWS.UsersTable)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL)
	passwordHasher := hasher.NewBcrypt(cfg.BcryptCost)
	publisher := event.NewSNSPublisher(snsClient, cfg.AWS.TopicARN, cfg.Events, logger)

	userService := service.NewUser(userRepo, passwordHasher, tokenManager, publisher, logger)
	ctxMgr := httpctx.NewManager()

	gin.SetMode(gin.ReleaseMode)
	r := router.New(userService, tokenManager, publisher, ctxMgr, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

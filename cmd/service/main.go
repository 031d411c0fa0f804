package main

import (
	"strconv"

	"go.uber.org/zap"

	"gitlab.com/olha.reshka/contact-book/internal/service"
)

// Usage example on the command line:
// > PORT=8080 SECRET_KEY=s3cret DBUSER=dirk DBPWD=bullo92 DBHOST=localhost GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	cfg := service.ConfigFromEnv()
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		log.Fatalw("could not parse PORT env variable", "error", err)
	}
	if len(cfg.SecretKey) == 0 {
		log.Fatalw("SECRET_KEY env variable must be set")
	}

	sqlDB, err := service.CreateDatabase()
	if err != nil {
		log.Fatalw("could not open database", "error", err)
	}

	mailer := service.NewSMTPMailer(cfg)
	server, err := service.NewServer(sqlDB, cfg, mailer, log)
	if err != nil {
		log.Fatalw("could not initialize server", "error", err)
	}

	router := server.SetupHttpRouter()
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}

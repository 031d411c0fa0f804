package service

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Config holds all process-wide settings. It is populated once at startup
// and injected into the server instead of being read from the environment
// at call sites.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string
	// SecretKey signs and verifies session tokens.
	SecretKey []byte
	// TokenValidity is the lifetime of an issued session token.
	TokenValidity time.Duration
	// PublicDir is served statically; avatars live in its "avatars" subdirectory.
	PublicDir string
	// TempDir receives multipart uploads before they are processed.
	TempDir string
	// SMTP connection parameters for the notification mailer.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	// Sender is the fixed From address on every outgoing mail.
	Sender string
}

// ConfigFromEnv builds a Config from the system's environment variables.
//
// Usage example on the command line:
// > PORT=8080 SECRET_KEY=s3cret DBUSER=dirk DBPWD=bullo92 DBHOST=localhost go run main.go
func ConfigFromEnv() Config {
	smtpPort := 2525
	if p := os.Getenv("SMTP_PORT"); p != "" {
		fmt.Sscanf(p, "%d", &smtpPort)
	}
	publicDir := os.Getenv("PUBLIC_DIR")
	if publicDir == "" {
		publicDir = "public"
	}
	tempDir := os.Getenv("TEMP_DIR")
	if tempDir == "" {
		tempDir = "tmp"
	}
	return Config{
		Port:          os.Getenv("PORT"),
		SecretKey:     []byte(os.Getenv("SECRET_KEY")),
		TokenValidity: 20 * time.Hour,
		PublicDir:     publicDir,
		TempDir:       tempDir,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      smtpPort,
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		Sender:        os.Getenv("MAIL_SENDER"),
	}
}

// CreateDatabase initializes and returns a database connection. The connection
// parameters are taken from the system's environment variables.
func CreateDatabase() (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/test?parseTime=true",
		os.Getenv("DBUSER"), os.Getenv("DBPWD"), os.Getenv("DBHOST"))
	return sql.Open("mysql", dsn)
}

// Server bundles the database wrapper, the configuration, the outbound
// mailer and the logger. One instance serves all requests; it holds no
// per-request state.
type Server struct {
	db     *sqlx.DB
	cfg    Config
	mailer Mailer
	log    *zap.SugaredLogger

	// Prepared statements offer a significant speed increase if executed many times.
	insertContact         *sqlx.NamedStmt
	selectContactWhereId  *sqlx.Stmt
	deleteContactWhereId  *sqlx.Stmt
	insertUser            *sqlx.NamedStmt
	selectUserWhereId     *sqlx.Stmt
	selectUserWhereEmail  *sqlx.Stmt
	selectUserWhereVerTok *sqlx.Stmt
}

// NewServer initializes the sqlx database wrapper with the specified sql
// database and prepares all statements. The database argument can be a real
// database for production use or a mock database within unit tests.
func NewServer(sqlDB *sql.DB, cfg Config, mailer Mailer, log *zap.SugaredLogger) (*Server, error) {
	s := &Server{
		db:     sqlx.NewDb(sqlDB, "mysql"),
		cfg:    cfg,
		mailer: mailer,
		log:    log,
	}
	var err error
	s.insertContact, err = s.db.PrepareNamed(`
		INSERT INTO contacts (name, email, phone, favorite)
		VALUES (:name, :email, :phone, :favorite)
	`)
	if err != nil {
		return nil, err
	}
	s.selectContactWhereId, err = s.db.Preparex(`
		SELECT * FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, err
	}
	s.deleteContactWhereId, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, err
	}
	s.insertUser, err = s.db.PrepareNamed(`
		INSERT INTO users (email, password, subscription, avatar_url, token, verify, verification_token)
		VALUES (:email, :password, :subscription, :avatar_url, :token, :verify, :verification_token)
	`)
	if err != nil {
		return nil, err
	}
	s.selectUserWhereId, err = s.db.Preparex(`
		SELECT * FROM users WHERE id = ?
	`)
	if err != nil {
		return nil, err
	}
	s.selectUserWhereEmail, err = s.db.Preparex(`
		SELECT * FROM users WHERE email = ?
	`)
	if err != nil {
		return nil, err
	}
	s.selectUserWhereVerTok, err = s.db.Preparex(`
		SELECT * FROM users WHERE verification_token = ?
	`)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
// Contact endpoints require a valid session token; account endpoints are a
// mix of public (register, login, verify) and authenticated ones.
func (s *Server) SetupHttpRouter() *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(os.Getenv("GIN_LOGGING"), "off") {
		fmt.Println("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}

	router.Static("/avatars", filepath.Join(s.cfg.PublicDir, "avatars"))

	contacts := router.Group("/contacts", s.authenticate)
	contacts.GET("", s.findContacts)
	contacts.POST("", s.createContact)
	contacts.GET("/:id", requireValidId, s.findContactById)
	contacts.PUT("/:id", requireValidId, s.updateContactById)
	contacts.DELETE("/:id", requireValidId, s.deleteContactById)
	contacts.PATCH("/:id/favorite", requireValidId, s.updateContactFavorite)

	users := router.Group("/users")
	users.POST("/register", s.registerUser)
	users.POST("/login", s.loginUser)
	users.POST("/logout", s.authenticate, s.logoutUser)
	users.GET("/current", s.authenticate, s.showCurrentUser)
	users.PATCH("/avatars", s.authenticate, s.updateAvatar)
	users.GET("/verify/:token", s.verifyUser)
	users.GET("/send-verify", s.sendVerifyEmail)

	return router
}

// internalError logs an unexpected failure and answers with a generic 500.
// Internal detail never reaches the client.
func (s *Server) internalError(c *gin.Context, err error) {
	s.log.Errorw("internal error", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/conf/v2"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/email"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/storage"
	"github.com/nextgenmedprep/medprep-server/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config sections shared by the commands. Environment variables use the
// empty prefix, e.g. POSTGRES_HOST or EMAIL_PROVIDER.

type PostgresConfig struct {
	User               string `conf:"default:postgres"`
	Password           string `conf:"default:postgres,mask"`
	Host               string `conf:"default:postgres"`
	Name               string `conf:"default:postgres,env:POSTGRES_DB"`
	Port               int    `conf:"default:5432"`
	MaxIdleConns       int    `conf:"default:3"`
	MaxOpenConns       int    `conf:"default:5"`
	SSLMode            string `conf:"default:disable"`
	StatementCacheMode string `conf:"default:prepare"`
}

func (c PostgresConfig) DBConfig() server.DBConfig {
	return server.DBConfig{
		User:               c.User,
		Password:           c.Password,
		Host:               c.Host,
		Name:               c.Name,
		Port:               c.Port,
		MaxIdleConns:       c.MaxIdleConns,
		MaxOpenConns:       c.MaxOpenConns,
		SSLMode:            c.SSLMode,
		StatementCacheMode: c.StatementCacheMode,
	}
}

type RedisConfig struct {
	Addr     string `conf:"default:redis:6379"`
	Network  string // "unix" for socket paths
	Password string `conf:"mask"`
	DB       int    `conf:"default:0"`
}

type StorageConfig struct {
	Endpoint         string        `conf:"default:localhost:9000"`
	AccessKey        string        `conf:"mask"`
	SecretKey        string        `conf:"mask"`
	UseSSL           bool          `conf:"default:false"`
	Region           string        `conf:"default:us-east-1"`
	ResourcesBucket  string        `conf:"default:free-resources"`
	StatementsBucket string        `conf:"default:personal-statements"`
	SignedURLTTL     time.Duration `conf:"default:3600s"`
}

type EmailConfig struct {
	Provider       string `conf:"default:smtp,help:Options [smtp|resend|log]"`
	Host           string
	Port           int    `conf:"default:465"`
	Encryption     string `conf:"default:SSL,help:Options [None|SSL|TLS|SSLTLS|STARTTLS]"`
	Username       string
	Password       string        `conf:"mask"`
	ConnectTimeout time.Duration `conf:"default:10s"`
	SendTimeout    time.Duration `conf:"default:30s"`
	ResendAPIKey   string        `conf:"mask"`
	Sender         string        `conf:"default:NextGen MedPrep <info@nextgenmedprep.co.uk>"`
}

// parseConfig fills cfg from the environment and flags. It reports
// done=true when only the help text was requested.
func parseConfig(cfg interface{}) (done bool, err error) {
	help, err := conf.Parse("", cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return true, nil
		}
		return false, fmt.Errorf("parsing config: %w", err)
	}
	return false, nil
}

func createLogger(level zapcore.Level) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	config.Level.SetLevel(level)

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()
	return logger.Sugar(), nil
}

func levelFor(debug bool) zapcore.Level {
	if debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// startup builds the logger and logs the masked configuration.
func startup(debug bool, cfg interface{}) (*zap.SugaredLogger, error) {
	log, err := createLogger(levelFor(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	out, err := conf.String(cfg)
	if err != nil {
		return nil, fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)
	return log, nil
}

func openDB(cfg PostgresConfig) (*sqlx.DB, error) {
	db, err := server.OpenDB(cfg.DBConfig())
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	return db, nil
}

func openRedis(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Network:  cfg.Network,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func openStorage(cfg StorageConfig, bucket string) (*storage.S3Storage, error) {
	client, err := storage.NewClient(storage.Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Region:    cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	return storage.NewS3Storage(client, bucket), nil
}

func createEmailService(log *zap.SugaredLogger, cfg EmailConfig) (email.EmailService, error) {
	switch cfg.Provider {
	case "smtp":
		if cfg.Host == "" {
			log.Warnw("smtp host not configured, emails are only logged")
			return email.NewLogEmailService(log), nil
		}
		encryption, ok := email.Encryptions[cfg.Encryption]
		if !ok {
			return nil, fmt.Errorf("unknown email encryption: %s", cfg.Encryption)
		}
		return &email.SmtpEmailService{
			Host:           cfg.Host,
			Port:           cfg.Port,
			Encryption:     encryption,
			Username:       cfg.Username,
			Password:       cfg.Password,
			Sender:         cfg.Sender,
			ConnectTimeout: cfg.ConnectTimeout,
			SendTimeout:    cfg.SendTimeout,
		}, nil
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("resend provider requires EMAIL_RESEND_API_KEY")
		}
		return email.NewResendEmailService(cfg.ResendAPIKey, cfg.Sender), nil
	case "log":
		return email.NewLogEmailService(log), nil
	}
	return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
}

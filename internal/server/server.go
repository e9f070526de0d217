package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/prometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nextgenmedprep/medprep-server/internal/application"
	"github.com/nextgenmedprep/medprep-server/internal/infrastructure/payments"
	"go.uber.org/zap"
)

type Config struct {
	Debug        bool
	SiteURL      string
	AdminKey     string
	AllowOrigins []string
	BodyLimit    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PaymentWebhooks verifies and decodes incoming payment provider events.
type PaymentWebhooks interface {
	ParseWebhook(payload []byte, signature string) (payments.Event, error)
}

// Closer is flushed on shutdown, after the HTTP server stops accepting requests.
type Closer interface {
	Close(ctx context.Context) error
}

type Services struct {
	Emails        *application.EmailsService
	Subscriptions *application.SubscriptionsService
	Joiners       *application.JoinersService
	Statements    *application.StatementsService
	Students      *application.StudentsService
	Webhooks      PaymentWebhooks
	Tasks         Closer
}

type Server struct {
	Config Config
	echo   *echo.Echo
	log    *zap.SugaredLogger

	emails        *application.EmailsService
	subscriptions *application.SubscriptionsService
	joiners       *application.JoinersService
	statements    *application.StatementsService
	students      *application.StudentsService
	webhooks      PaymentWebhooks
	tasks         Closer
}

type JSONSerializer struct{}

// Serialize converts an interface into a json and writes it to the response.
// You can optionally use the indent parameter to produce pretty JSONs.
func (d JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

// Deserialize reads a JSON from a request body and converts it into an interface.
func (d JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := jsoniter.NewDecoder(c.Request().Body).Decode(i)
	if ute, ok := err.(*json.UnmarshalTypeError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unmarshal type error: expected=%v, got=%v, field=%v, offset=%v", ute.Type, ute.Value, ute.Field, ute.Offset)).SetInternal(err)
	} else if se, ok := err.(*json.SyntaxError); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Syntax error: offset=%v, error=%v", se.Offset, se.Error())).SetInternal(err)
	} else if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body").SetInternal(err)
	}
	return nil
}

var (
	metricsMu sync.Mutex
	metrics   = map[string]*prometheus.Prometheus{}
)

// metricsFor returns the request metrics of a subsystem. The collectors go
// into the default registry, so they are created once per process.
func metricsFor(subsystem string) *prometheus.Prometheus {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	p, ok := metrics[subsystem]
	if !ok {
		p = prometheus.NewPrometheus(subsystem, nil)
		metrics[subsystem] = p
	}
	return p
}

// NewEcho creates an echo instance with the shared serializer, error
// handler and request metrics. Both HTTP services are built on it.
func NewEcho(log *zap.SugaredLogger, subsystem string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = &JSONSerializer{}
	e.HTTPErrorHandler = ErrorHandler(log)

	metricsFor(subsystem).Use(e)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	return e
}

func NewServer(log *zap.SugaredLogger, cfg Config, services Services) *Server {
	e := NewEcho(log, "api")
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "12M"
	}
	cors := middleware.DefaultCORSConfig
	if len(cfg.AllowOrigins) > 0 {
		cors.AllowOrigins = cfg.AllowOrigins
	}
	cors.AllowHeaders = []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, AdminKeyHeader}
	e.Use(
		middleware.CORSWithConfig(cors),
		middleware.BodyLimit(cfg.BodyLimit),
	)
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	s := &Server{
		Config:        cfg,
		log:           log,
		echo:          e,
		emails:        services.Emails,
		subscriptions: services.Subscriptions,
		joiners:       services.Joiners,
		statements:    services.Statements,
		students:      services.Students,
		webhooks:      services.Webhooks,
		tasks:         services.Tasks,
	}
	s.AddRoutes(e)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	if s.tasks != nil {
		if cerr := s.tasks.Close(ctx); cerr != nil {
			s.log.Errorw("draining notification queue", zap.Error(cerr))
		}
	}
	return err
}

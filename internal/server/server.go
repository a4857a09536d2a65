package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/victornm/drawboard/internal/api"
	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
	"github.com/victornm/drawboard/internal/event"
	"github.com/victornm/drawboard/internal/leaderboard"
	"github.com/victornm/drawboard/internal/loop"
	"github.com/victornm/drawboard/internal/quiz"
	"github.com/victornm/drawboard/internal/score"
	"github.com/victornm/drawboard/internal/telemetry"
	"github.com/victornm/drawboard/internal/typewriter"
)

type RedisConfig struct {
	Addrs  []string
	Pass   string
	Prefix string
}

type DrawConfig struct {
	Duration   time.Duration
	Candidates []string
}

type Config struct {
	HTTP struct {
		Port int32
	}

	GRPC struct {
		Port int32
	}

	Log struct {
		Level string
	}

	// Redis sections are optional: without addresses the leaderboard is not
	// throttled and notifications are only logged.
	Redis struct {
		Leaderboard RedisConfig
		Pubsub      RedisConfig
	}

	Draw struct {
		Lucky   DrawConfig
		Lottery DrawConfig
		Quiz    struct {
			Duration time.Duration
		}
	}

	Quiz struct {
		Catalog        string
		TypingInterval time.Duration `mapstructure:"typing_interval"`
		ScoreStep      int           `mapstructure:"score_step"`
		Shuffle        bool
	}

	Engine struct {
		FrameInterval time.Duration `mapstructure:"frame_interval"`
	}

	// Registerer receives the server metrics. When it is also a
	// prometheus.Gatherer, /metrics serves from it.
	Registerer prometheus.Registerer `mapstructure:"-"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() Config {
	var c Config
	c.HTTP.Port = 8080
	c.GRPC.Port = 8081
	c.Log.Level = "info"
	c.Redis.Leaderboard.Prefix = "drawboard"
	c.Redis.Pubsub.Prefix = "drawboard"
	c.Draw.Lucky.Duration = draw.LuckyDrawDuration
	c.Draw.Lottery.Duration = draw.LotteryDuration
	c.Draw.Quiz.Duration = draw.QuizPickDuration
	c.Quiz.TypingInterval = typewriter.DefaultInterval
	c.Quiz.ScoreStep = score.DefaultStep
	c.Engine.FrameInterval = loop.DefaultInterval
	c.Registerer = prometheus.DefaultRegisterer
	return c
}

type Server struct {
	c Config

	eb *event.Bus

	infra struct {
		redis struct {
			leaderboard redis.UniversalClient
			pubsub      redis.UniversalClient
		}
	}

	service struct {
		lucky       *draw.Runner
		lottery     *draw.Runner
		score       *score.Service
		leaderboard *leaderboard.Service
		quiz        *quiz.Board
	}

	health *health.Server
	http   *http.Server
	grpc   *grpc.Server
}

func Init(c Config) (*Server, error) {
	if c.Registerer == nil {
		c.Registerer = prometheus.DefaultRegisterer
	}
	s := &Server{c: c}

	s.eb = event.NewBus()

	m, err := telemetry.NewMetrics(c.Registerer)
	if err != nil {
		return nil, fmt.Errorf("server: init metrics: %w", err)
	}
	m.Observe(s.eb)

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	if err := s.initService(); err != nil {
		return nil, fmt.Errorf("server: init service: %w", err)
	}

	s.initAPI()
	return s, nil
}

func (s *Server) initInfra() error {
	connect := func(rc RedisConfig) (redis.UniversalClient, error) {
		if len(rc.Addrs) == 0 {
			return nil, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		r := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    rc.Addrs,
			Password: rc.Pass,
		})

		if err := telemetry.MonitorRedis(r); err != nil {
			return nil, err
		}

		if err := r.Ping(ctx).Err(); err != nil {
			return nil, err
		}

		return r, nil
	}

	var err error
	s.infra.redis.leaderboard, err = connect(s.c.Redis.Leaderboard)
	if err != nil {
		return fmt.Errorf("redis: leaderboard: %w", err)
	}

	s.infra.redis.pubsub, err = connect(s.c.Redis.Pubsub)
	if err != nil {
		return fmt.Errorf("redis: pubsub: %w", err)
	}

	return nil
}

func (s *Server) initService() error {
	frames := loop.Config{Interval: s.c.Engine.FrameInterval}
	cues := draw.ObserverCues(s.eb)

	runner := func(v domain.Variant, dc DrawConfig) *draw.Runner {
		o := draw.Preset(v)
		if dc.Duration > 0 {
			o.Duration = dc.Duration
		}
		o.Cues = cues
		o.Observer = s.eb

		r := draw.NewRunner(draw.RunnerConfig{
			Engine: draw.NewEngine(o),
			Loop:   frames,
		})
		r.Add(dc.Candidates...)
		return r
	}

	s.service.lucky = runner(domain.VariantLucky, s.c.Draw.Lucky)
	s.service.lottery = runner(domain.VariantLottery, s.c.Draw.Lottery)

	s.service.score = score.NewService(score.Config{
		EventBus: s.eb,
		Step:     s.c.Quiz.ScoreStep,
	})

	s.service.leaderboard = leaderboard.NewService(leaderboard.Config{
		EventBus: s.eb,
		Score:    s.service.score,
		Redis:    s.infra.redis.leaderboard,
		Prefix:   s.c.Redis.Leaderboard.Prefix,
	})

	var catalog []domain.Quiz
	if s.c.Quiz.Catalog != "" {
		var err error
		catalog, err = quiz.LoadCatalog(s.c.Quiz.Catalog)
		if err != nil {
			return fmt.Errorf("quiz: %w", err)
		}
	}

	s.service.quiz = quiz.NewBoard(quiz.Config{
		EventBus:       s.eb,
		Score:          s.service.score,
		Catalog:        catalog,
		Cues:           cues,
		Shuffle:        s.c.Quiz.Shuffle,
		TypingInterval: s.c.Quiz.TypingInterval,
		PickDuration:   s.c.Draw.Quiz.Duration,
		PickLoop:       frames,
	})

	slog.Info("server: boards ready",
		"lucky", len(s.service.lucky.Snapshot().Pool),
		"lottery", len(s.service.lottery.Snapshot().Pool),
		"quizzes", len(catalog),
	)
	return nil
}

func (s *Server) initAPI() {
	metrics := promhttp.Handler()
	if g, ok := s.c.Registerer.(prometheus.Gatherer); ok {
		metrics = promhttp.InstrumentMetricHandler(s.c.Registerer, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	}

	e := gin.New()
	e.GET("/metrics", gin.WrapH(metrics))
	e.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	pprof.Register(e, "/debug/pprof")
	e.Use(gin.Recovery())

	s.grpc = grpc.NewServer(telemetry.GRPCServerInterceptor())
	s.health = telemetry.RegisterHealth(s.grpc)

	api.New(api.Config{
		Router:      e,
		Boards:      []*draw.Runner{s.service.lucky, s.service.lottery},
		Quiz:        s.service.quiz,
		Score:       s.service.score,
		Leaderboard: s.service.leaderboard,
	})

	var pubsub api.Redis
	if s.infra.redis.pubsub != nil {
		pubsub = s.infra.redis.pubsub
	}
	api.NewRelay(api.RelayConfig{
		EventBus: s.eb,
		Redis:    pubsub,
		Prefix:   s.c.Redis.Pubsub.Prefix,
	})

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.c.HTTP.Port),
		Handler:           e,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

// Handler exposes the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) Start() {
	ctx := context.TODO()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.c.GRPC.Port))
	if err != nil {
		slog.ErrorContext(ctx, "grpc server: listen failed", "error", err)
		panic(err)
	}

	var eg errgroup.Group
	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: gRPC listening on port %d", s.c.GRPC.Port))
		return s.grpc.Serve(lis)
	})

	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on port %d", s.c.HTTP.Port))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	err = eg.Wait()
	if err != nil {
		slog.ErrorContext(ctx, "server: shutdown with error", "error", err)
	}
}

// Shutdown stops accepting requests, cancels running draws so that no winner
// is revealed afterwards, then drains the event bus.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.health.Shutdown()
	s.grpc.GracefulStop()
	if err := s.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}

	s.service.lucky.Close()
	s.service.lottery.Close()
	s.service.quiz.Close()
	s.service.leaderboard.Close()

	s.eb.Stop()

	for _, r := range []redis.UniversalClient{s.infra.redis.leaderboard, s.infra.redis.pubsub} {
		if r != nil {
			_ = r.Close()
		}
	}

	slog.InfoContext(ctx, "server: shutdown completed")
}

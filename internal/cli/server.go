package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"trivia-arena/internal/config"
	"trivia-arena/internal/game"
	"trivia-arena/internal/infra/memory"
	pgsource "trivia-arena/internal/infra/postgres"
	redissource "trivia-arena/internal/infra/redis"
	transport "trivia-arena/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the tournament server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	rules := gameRules(cfg)
	source := questionSource(cfg, pool, redisClient, rules.QuestionsPerGame)

	var sink game.SettlementSink = memory.NewSettlement()
	if pool != nil {
		sink = pgsource.NewSettlement(pool)
	}

	hub := transport.NewHub()
	session := game.NewSession(rules, hub, source, sink)
	wsHandler := transport.NewWSHandler(session, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia arena on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// questionSource picks the question pipeline: postgres bank behind a redis
// or in-memory pool cache, or the builtin sample set when no database is
// configured.
func questionSource(cfg config.Config, pool *pgxpool.Pool, redisClient *redis.Client, perGame int) game.QuestionSource {
	poolSize := cfg.Questions.PoolSize
	if poolSize < perGame {
		poolSize = perGame * 10
	}
	ttl := config.Duration(cfg.Questions.TTL, 10*time.Minute)

	if pool == nil {
		return memory.NewStaticQuestionSource(game.BuiltinQuestions())
	}

	bank := pgsource.NewQuestionSource(pool)
	if redisClient != nil {
		return redissource.NewQuestionCache(redisClient, bank, poolSize, ttl)
	}
	return memory.NewCachedSource(bank, poolSize, ttl)
}

func gameRules(cfg config.Config) game.Rules {
	rules := game.DefaultRules()
	if cfg.Questions.PerGame > 0 {
		rules.QuestionsPerGame = cfg.Questions.PerGame
	}
	rules.QuestionTimeLimit = config.Duration(cfg.Game.QuestionTimeLimit, rules.QuestionTimeLimit)
	rules.QuestionLeadIn = config.Duration(cfg.Game.QuestionLeadIn, rules.QuestionLeadIn)
	rules.StartDelay = config.Duration(cfg.Game.StartDelay, rules.StartDelay)
	rules.ResetDelay = config.Duration(cfg.Game.ResetDelay, rules.ResetDelay)
	if cfg.Game.BaseScore > 0 {
		rules.BaseScore = cfg.Game.BaseScore
	}
	if cfg.Game.MaxTimeBonus > 0 {
		rules.MaxTimeBonus = cfg.Game.MaxTimeBonus
	}
	if cfg.Game.ComboBonusStep > 0 {
		rules.ComboBonusStep = cfg.Game.ComboBonusStep
	}
	if cfg.Game.MaxComboBonus > 0 {
		rules.MaxComboBonus = cfg.Game.MaxComboBonus
	}
	if cfg.Game.GradeFactor > 0 {
		rules.GradeFactor = cfg.Game.GradeFactor
	}
	if cfg.Game.XPPerCorrect > 0 {
		rules.XPPerCorrect = cfg.Game.XPPerCorrect
	}
	return rules
}

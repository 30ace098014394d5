package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/mindlit/mindlit"
	"github.com/mindlit/mindlit/books"
	"github.com/mindlit/mindlit/middleware/jwtware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg := LoadConfig()

	if cfg.SigningKey == "" {
		log.Fatal("MINDLIT_SIGNING_KEY is required")
	}

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	repo := mindlit.NewRepositoryManager(db)
	repo.MustValidate()

	provider := mindlit.NewUserProvider(repo.Users())
	auther := mindlit.NewAuthenticator(provider, provider, cfg)

	gate := jwtware.New(jwtware.Config{
		ContextKey:     cfg.GetContextKey(),
		AuthScheme:     cfg.GetAuthScheme(),
		TokenLookup:    cfg.GetTokenLookup(),
		TokenValidator: mindlit.NewGateValidator(auther.TokenService()),
	})

	app := fiber.New(fiber.Config{
		AppName: "mindlit",
	})

	mindlit.RegisterAuthRoutes(app, gate,
		mindlit.WithControllerAuthenticator(auther),
		mindlit.WithControllerRepo(repo),
		mindlit.WithControllerContextKey(cfg.GetContextKey()),
	)

	if err := mountBooks(app, gate, db, cfg); err != nil {
		log.Fatal(err)
	}

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*mindlit.User)(nil),
		(*books.Book)(nil),
		(*books.Flashcard)(nil),
		(*books.Suggestion)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func mountBooks(app fiber.Router, gate fiber.Handler, db *bun.DB, cfg *AppConfig) error {
	summarizer, err := books.NewOpenAISummarizer(books.SummarizerConfig{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIAPIURL,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		return err
	}

	service := books.NewService(
		books.NewBooksRepository(db),
		books.NewSuggestionsRepository(db),
		summarizer,
	)

	books.RegisterRoutes(app, gate,
		books.WithControllerService(service),
		books.WithControllerContextKey(cfg.GetContextKey()),
	)

	return nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

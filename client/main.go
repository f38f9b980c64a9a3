package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"

	"todo-app/client/api"
	"todo-app/client/ui"
)

type config struct {
	APIURL  string        `env:"TODO_API_URL" env-default:"http://localhost:5000/todos"`
	Timeout time.Duration `env:"TODO_API_TIMEOUT" env-default:"10s"`
}

func main() {
	var cfg config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "failed to read config:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.APIURL, cfg.Timeout)
	if err := ui.Run(ctx, client, ui.WithRequestTimeout(cfg.Timeout)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

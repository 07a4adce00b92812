package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AnesSym/medical-test/internal/core"
	httpserver "github.com/AnesSym/medical-test/internal/http"
	"github.com/AnesSym/medical-test/internal/keys"
	"github.com/AnesSym/medical-test/internal/llm"
	"github.com/AnesSym/medical-test/internal/mail"
)

func main() {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		zerolog.SetGlobalLevel(lvl)
	}

	pool := splitKeys(os.Getenv("GROQ_API_KEYS"))
	rotator, err := keys.NewRotator(pool)
	if err != nil {
		log.Fatal().Err(err).Msg("GROQ_API_KEYS must contain at least one key")
	}
	log.Info().Int("keys", rotator.Len()).Msg("credential pool loaded")

	client := llm.NewGroqClient(rotator, os.Getenv("GROQ_BASE_URL"))
	store := core.NewStore()
	patients := core.NewPatientLog()
	chat := core.NewChatService(client)
	mailer := mail.NewFeedbackMailerFromEnv()

	srv := httpserver.NewServer(store, patients, chat, mailer, log.Logger)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	log.Info().Str("addr", addr).Msg("listening")
	if err := http.ListenAndServe(addr, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// splitKeys parses the comma-separated credential pool, dropping empty
// entries and surrounding whitespace.
func splitKeys(raw string) []string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

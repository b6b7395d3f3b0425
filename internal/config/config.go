package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1"`
	DBPath           string        `env:"DB_PATH"            envDefault:"db.sqlite"`
	ListenAddr       string        `env:"LISTEN_ADDR"        envDefault:"127.0.0.1:8080"`
	PageFetchTimeout time.Duration `env:"PAGE_FETCH_TIMEOUT" envDefault:"20s"`
	Debug            bool          `env:"DEBUG"`
}

func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}

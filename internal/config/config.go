// config реализует конфигурацию engagement-сервиса kinolenta:
// загрузка из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Probes   ProbesConfig  `yaml:"probes"`
	DB       DBConfig      `yaml:"db"`
	Cache    CacheConfig   `yaml:"cache"`
	Films    FilmsConfig   `yaml:"films"`
	Limits   LimitsConfig  `yaml:"limits"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — сервисные таймауты (общий дедлайн обработки запроса).
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
}

// HTTPConfig — сетевые настройки основного HTTP API.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50080"`
}

// ProbesConfig — служебный HTTP (health/metrics).
type ProbesConfig struct {
	Host string `yaml:"host" env:"PROBES_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"PROBES_PORT" env-default:"50090"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// Addr возвращает адрес в формате host:port.
func (p ProbesConfig) Addr() string {
	return net.JoinHostPort(p.Host, p.Port)
}

// DBConfig — настройки подключения к MongoDB.
type DBConfig struct {
	URL string `yaml:"url" env:"DATABASE_URL" env-required:"true"`
}

// CacheConfig — локальный кэш-документ поверх Redis.
type CacheConfig struct {
	URL string `yaml:"url" env:"CACHE_URL" env-required:"true"`
	// Префикс ключа документа. Публичные API-записи (ответы каталогов,
	// одинаковые для всех) живут в общем документе под самим префиксом;
	// документ с черновиками у каждого профиля свой — идентификатор
	// профиля дописывается к префиксу через Store.ForProfile.
	KeyPrefix string `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"kinolenta:cache:v2"`
	// TTL API-записей (ответы внешних кино-каталогов). По умолчанию 2 дня.
	APITTL time.Duration `yaml:"api_ttl" env:"CACHE_API_TTL" env-default:"48h"`
	// TTL черновиков оценок. По умолчанию 7 дней.
	DraftTTL time.Duration `yaml:"draft_ttl" env:"CACHE_DRAFT_TTL" env-default:"168h"`
}

// FilmsConfig — внешние кино-каталоги. Ядро не разбирает их ответы,
// только кэширует и отдаёт как есть.
type FilmsConfig struct {
	KinopoiskURL string        `yaml:"kinopoisk_url" env:"FILMS_KINOPOISK_URL" env-default:"https://kinopoiskapiunofficial.tech"`
	TMDBURL      string        `yaml:"tmdb_url" env:"FILMS_TMDB_URL" env-default:"https://api.themoviedb.org/3"`
	OMDBURL      string        `yaml:"omdb_url" env:"FILMS_OMDB_URL" env-default:"https://www.omdbapi.com"`
	APIKey       string        `yaml:"api_key" env:"FILMS_API_KEY"`
	Timeout      time.Duration `yaml:"timeout" env:"FILMS_TIMEOUT" env-default:"10s"`
}

// LimitsConfig — лимиты пользовательского ввода.
type LimitsConfig struct {
	// Максимальная длина комментария в рунах.
	CommentMaxLength int `yaml:"comment_max_length" env:"COMMENT_MAX_LENGTH" env-default:"500"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла накладываем ENV-переменные поверх значений из YAML.
func Load(path string) (*Config, error) {
	var cfg Config

	// чтение файла + overlay ENV.
	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) Явный путь.
	if path != "" {
		c, err := tryRead(path)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 2) CONFIG_PATH.
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		c, err := tryRead(envPath)
		if err != nil {
			return nil, err
		}

		if err := c.validate(); err != nil {
			return nil, err
		}

		return c, nil
	}

	// 3) ./local.yaml.
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		if err := cfg.validate(); err != nil {
			return nil, err
		}

		return &cfg, nil
	}

	// 4) Только ENV.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if c.DB.URL == "" {
		return fmt.Errorf("db.url is required")
	}

	if c.Cache.URL == "" {
		return fmt.Errorf("cache.url is required")
	}

	if c.Cache.APITTL < time.Minute {
		return fmt.Errorf("cache.api_ttl must be at least 1m")
	}

	if c.Cache.DraftTTL < time.Hour {
		return fmt.Errorf("cache.draft_ttl must be at least 1h")
	}

	if c.Limits.CommentMaxLength <= 0 {
		return fmt.Errorf("limits.comment_max_length must be > 0")
	}

	if c.Limits.CommentMaxLength > 10000 {
		return fmt.Errorf("limits.comment_max_length is too large (<= 10000)")
	}

	return nil
}

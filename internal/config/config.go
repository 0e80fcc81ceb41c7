// Package config loads service settings from defaults, an optional config
// file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/zyren-ai/zyren/internal/engine"
	"github.com/zyren-ai/zyren/internal/logging"
	"github.com/zyren-ai/zyren/internal/predict"
)

// DefaultSystemInstruction is the assistant persona.
const DefaultSystemInstruction = `Kamu adalah "Zyren-Ai", sebuah asisten AI pintar yang dikembangkan oleh developer bernama "Hasbi".
Gunakan bahasa Indonesia yang santai, gaul, namun tetap sopan dan membantu.
Kamu ahli dalam memberikan tips game, strategi, dan juga bisa membuat gambar jika diminta.
Jangan pernah mengaku buatan Google, kamu adalah buatan Hasbi.`

// Settings is the full service configuration.
type Settings struct {
	Server struct {
		Port       int    `mapstructure:"port"`
		PublicDir  string `mapstructure:"public_dir"`
		CORSOrigin string `mapstructure:"cors_origin"` // name the client's origin when cross-origin; "*" carries no cookie
	} `mapstructure:"server"`

	Session struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
		Cookie string        `mapstructure:"cookie"`
		Secure bool          `mapstructure:"secure"`
	} `mapstructure:"session"`

	Predictor struct {
		Shape         int    `mapstructure:"shape"`
		Scheme        string `mapstructure:"scheme"`
		InitialRounds int    `mapstructure:"initial_rounds"`
		Increment     int    `mapstructure:"increment"`
		Strict        bool   `mapstructure:"strict"`
	} `mapstructure:"predictor"`

	Gemini struct {
		APIKey            string        `mapstructure:"api_key"`
		ChatModel         string        `mapstructure:"chat_model"`
		ImageModel        string        `mapstructure:"image_model"`
		SystemInstruction string        `mapstructure:"system_instruction"`
		Timeout           time.Duration `mapstructure:"timeout"`
		RatePerMinute     int           `mapstructure:"rate_per_minute"`
		HistoryLimit      int           `mapstructure:"history_limit"`
	} `mapstructure:"gemini"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Sentry struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_dir", "public")
	v.SetDefault("server.cors_origin", "*")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 2*time.Hour)
	v.SetDefault("session.cookie", "zyren_session")
	v.SetDefault("session.secure", false)

	v.SetDefault("predictor.shape", int(predict.ShapeSeven))
	v.SetDefault("predictor.scheme", engine.SchemeChapter.String())
	v.SetDefault("predictor.initial_rounds", predict.DefaultInitialRounds)
	v.SetDefault("predictor.increment", predict.DefaultIncrement)
	v.SetDefault("predictor.strict", false)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.chat_model", "gemini-2.5-flash")
	v.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.system_instruction", DefaultSystemInstruction)
	v.SetDefault("gemini.timeout", 60*time.Second)
	v.SetDefault("gemini.rate_per_minute", 30)
	v.SetDefault("gemini.history_limit", 50)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
}

// envBindings are the plain variable names accepted next to the ZYREN_ ones.
var envBindings = map[string][]string{
	"server.port":    {"ZYREN_SERVER_PORT", "PORT"},
	"gemini.api_key": {"ZYREN_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"},
	"sentry.dsn":     {"ZYREN_SENTRY_DSN", "SENTRY_DSN"},
}

// LoadDotEnv reads .env style files into the environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads settings into v. configFile may be empty to search for zyren.yaml
// in the working directory and $HOME/.config/zyren.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	setDefaults(v)

	v.SetEnvPrefix("ZYREN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("zyren")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/zyren")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	if s.Server.Port < 1 || s.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", s.Server.Port)
	}
	if s.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", s.Session.TTL)
	}
	if strings.TrimSpace(s.Session.Cookie) == "" {
		return errors.New("session.cookie must not be empty")
	}
	if _, err := s.EngineConfig(); err != nil {
		return err
	}
	if s.Gemini.RatePerMinute < 0 {
		return fmt.Errorf("gemini.rate_per_minute must not be negative, got %d", s.Gemini.RatePerMinute)
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", s.Log.Format)
	}
	return nil
}

// EngineConfig converts the predictor section for predict.New.
func (s *Settings) EngineConfig() (predict.Config, error) {
	shape, err := predict.ParseShape(s.Predictor.Shape)
	if err != nil {
		return predict.Config{}, fmt.Errorf("predictor.shape: %w", err)
	}
	scheme, err := engine.ParseScheme(s.Predictor.Scheme)
	if err != nil {
		return predict.Config{}, fmt.Errorf("predictor.scheme: %w", err)
	}
	return predict.Config{
		Shape:         shape,
		Scheme:        scheme,
		InitialRounds: s.Predictor.InitialRounds,
		Increment:     s.Predictor.Increment,
		Strict:        s.Predictor.Strict,
	}, nil
}

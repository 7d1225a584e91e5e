package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/dikno1d/mizme-chat/internal/domain"
)

type RoomConfig struct {
	ID          string `mapstructure:"id"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	Rooms      []RoomConfig  `mapstructure:"rooms"`
}

// Catalog converts the configured room list into domain entities. The
// catalog is fixed for the process lifetime.
func (c *Config) Catalog() []domain.Room {
	out := make([]domain.Room, 0, len(c.Rooms))
	for _, rc := range c.Rooms {
		out = append(out, domain.Room{
			ID:          domain.RoomID(rc.ID),
			Name:        rc.Name,
			Description: rc.Description,
		})
	}
	return out
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("rooms", []map[string]any{
		{"id": "general", "name": "General", "description": "Anything goes"},
		{"id": "gaming", "name": "Gaming", "description": "Game talk and party up"},
		{"id": "music", "name": "Music", "description": "Share what you are listening to"},
	})

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Rooms: %d\n", cfg.Mode, cfg.Port, len(cfg.Rooms))
	return &cfg, nil
}

package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Load builds the configuration from defaults, an optional toml file,
// and environment overrides for secrets and connection strings, in
// that order.
func Load(path string) (Configs, error) {
	cfg := defaultConfigs()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.ApiServer.Port = v
	}

	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}

	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.AccessToken.Secret = v
	}

	if v := os.Getenv("ACCESS_TOKEN_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Configs{}, err
		}
		cfg.Auth.AccessToken.Expiration = d
	}

	return cfg, nil
}

func defaultConfigs() Configs {
	return Configs{
		Env: "local",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "plume",
			User:     "plume",
		},
		ApiServer: APIServerConfigs{
			Port:         "8080",
			MaxLimit:     50,
			DefaultLimit: 20,
		},
		Auth: AuthConfigs{
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Secret:     "token-secret",
				Expiration: 24 * time.Hour,
			},
		},
		Redis: RedisConfigs{
			Addr: "localhost:6379",
		},
		Growth: GrowthConfigs{
			Timezone:    "Asia/Seoul",
			LevelStepXP: 100,

			PostXP:             10,
			FirstPostBonusXP:   5,
			LikeGivenXP:        1,
			LikeReceivedXP:     2,
			BookmarkReceivedXP: 3,

			LikeGivenDailyCap:        20,
			LikeReceivedDailyCap:     40,
			BookmarkReceivedDailyCap: 30,

			TitleBands: []TitleBand{
				{MinLevel: 1, Title: "Novice Scribe"},
				{MinLevel: 5, Title: "Wordsmith"},
				{MinLevel: 10, Title: "Storyteller"},
				{MinLevel: 20, Title: "Author"},
				{MinLevel: 35, Title: "Luminary"},
			},
		},
	}
}

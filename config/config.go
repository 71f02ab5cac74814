package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer APIServerConfigs `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Growth    GrowthConfigs    `toml:"growth"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type APIServerConfigs struct {
	Host         string `toml:"host"`
	Port         string `toml:"port"`
	AllowCORS    bool   `toml:"allow_cors"`
	MaxLimit     int    `toml:"max_limit"`
	DefaultLimit int    `toml:"default_limit"`
}

type AuthConfigs struct {
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Secret     string        `toml:"secret"`
	Expiration time.Duration `toml:"-"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

// TitleBand maps a minimum level to a display title. Bands are
// evaluated in ascending MinLevel order, the last band the user's
// level reaches wins.
type TitleBand struct {
	MinLevel int    `toml:"min_level"`
	Title    string `toml:"title"`
}

type GrowthConfigs struct {
	// Timezone is the platform's fixed reference timezone. Every
	// calendar-day bucket (daily caps, streaks, daily reset keys) is
	// computed in this zone, never in UTC or the caller's local time.
	Timezone string `toml:"timezone"`

	// LevelStepXP is the base cost of a level. The cost of going from
	// level n to n+1 is LevelStepXP*n.
	LevelStepXP int `toml:"level_step_xp"`

	PostXP             int `toml:"post_xp"`
	FirstPostBonusXP   int `toml:"first_post_bonus_xp"`
	LikeGivenXP        int `toml:"like_given_xp"`
	LikeReceivedXP     int `toml:"like_received_xp"`
	BookmarkReceivedXP int `toml:"bookmark_received_xp"`

	LikeGivenDailyCap        int `toml:"like_given_daily_cap"`
	LikeReceivedDailyCap     int `toml:"like_received_daily_cap"`
	BookmarkReceivedDailyCap int `toml:"bookmark_received_daily_cap"`

	TitleBands []TitleBand `toml:"title_bands"`
}

// Location resolves the reference timezone, falling back to UTC on an
// unknown zone name.
func (g *GrowthConfigs) Location() *time.Location {
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

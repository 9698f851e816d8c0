// Package config provides Viper-based configuration loading for rpgstat.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Debug forces debug level regardless of Level.
	Debug bool `mapstructure:"debug"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds settings-store connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// ProgressionConfig tunes experience accrual.
type ProgressionConfig struct {
	// BaseExperience is the cost of the first level-up.
	BaseExperience float64 `mapstructure:"base_experience"`
	// ExperienceMultiplier scales every deposit.
	ExperienceMultiplier float64 `mapstructure:"experience_multiplier"`

	WorkExperience   bool `mapstructure:"work_experience"`
	CombatExperience bool `mapstructure:"combat_experience"`
	SocialExperience bool `mapstructure:"social_experience"`
	AnimalExperience bool `mapstructure:"animal_experience"`

	// SkillScale converts host skill XP into attribute experience.
	SkillScale                  float64 `mapstructure:"skill_scale"`
	AttackExperience            float64 `mapstructure:"attack_experience"`
	SocialInteractionExperience float64 `mapstructure:"social_interaction_experience"`
	GrowingScale                float64 `mapstructure:"growing_scale"`
	HaulExperiencePerKg         float64 `mapstructure:"haul_experience_per_kg"`
	ProductionExperiencePerUnit float64 `mapstructure:"production_experience_per_unit"`
	TrainingExperience          float64 `mapstructure:"training_experience"`
	BirthExperience             float64 `mapstructure:"birth_experience"`
	ActivityExperience          float64 `mapstructure:"activity_experience"`
}

// StatsConfig controls the stat modifier engines.
type StatsConfig struct {
	// AnimalEnabled turns the animal engine on.
	AnimalEnabled bool `mapstructure:"animal_enabled"`
	// CatalogFile optionally extends the statistic catalog.
	CatalogFile string `mapstructure:"catalog_file"`
}

// BalanceConfig controls the power balancer.
type BalanceConfig struct {
	Enabled            bool    `mapstructure:"enabled"`
	EnemyMultiplier    float64 `mapstructure:"enemy_multiplier"`
	AllyMultiplier     float64 `mapstructure:"ally_multiplier"`
	CacheIntervalTicks int64   `mapstructure:"cache_interval_ticks"`
}

// SettingsConfig selects where user overrides and toggles persist.
type SettingsConfig struct {
	// Backend is "memory", "file", "redis" or "postgres".
	Backend string `mapstructure:"backend"`
	// File is the override file used by the "file" backend.
	File string `mapstructure:"file"`
}

// SimHostConfig tunes the simulated host.
type SimHostConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	TicksPerStep int64         `mapstructure:"ticks_per_step"`
	// RepollTicks is how often modifiers are re-polled.
	RepollTicks int64 `mapstructure:"repoll_ticks"`
	// Difficulty is the host's threat scale.
	Difficulty float64 `mapstructure:"difficulty"`
	// Storage is "memory" or "postgres".
	Storage          string `mapstructure:"storage"`
	InstructionLimit int    `mapstructure:"instruction_limit"`
}

// FeatureToggles is the user-tunable settings subset that is persisted.
type FeatureToggles struct {
	AnimalStats          bool    `json:"animal_stats" yaml:"animal_stats"`
	AutoBalance          bool    `json:"auto_balance" yaml:"auto_balance"`
	ExperienceMultiplier float64 `json:"experience_multiplier" yaml:"experience_multiplier"`
	EnemyMultiplier      float64 `json:"enemy_multiplier" yaml:"enemy_multiplier"`
	AllyMultiplier       float64 `json:"ally_multiplier" yaml:"ally_multiplier"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging     LoggingConfig     `mapstructure:"logging"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Stats       StatsConfig       `mapstructure:"stats"`
	Balance     BalanceConfig     `mapstructure:"balance"`
	Settings    SettingsConfig    `mapstructure:"settings"`
	SimHost     SimHostConfig     `mapstructure:"simhost"`
}

// Toggles extracts the persisted feature toggles.
func (c Config) Toggles() FeatureToggles {
	return FeatureToggles{
		AnimalStats:          c.Stats.AnimalEnabled,
		AutoBalance:          c.Balance.Enabled,
		ExperienceMultiplier: c.Progression.ExperienceMultiplier,
		EnemyMultiplier:      c.Balance.EnemyMultiplier,
		AllyMultiplier:       c.Balance.AllyMultiplier,
	}
}

// ApplyToggles overwrites the toggle-controlled fields of c. Non-positive
// multipliers are ignored.
func (c *Config) ApplyToggles(t FeatureToggles) {
	c.Stats.AnimalEnabled = t.AnimalStats
	c.Balance.Enabled = t.AutoBalance
	if t.ExperienceMultiplier > 0 {
		c.Progression.ExperienceMultiplier = t.ExperienceMultiplier
	}
	if t.EnemyMultiplier > 0 {
		c.Balance.EnemyMultiplier = t.EnemyMultiplier
	}
	if t.AllyMultiplier > 0 {
		c.Balance.AllyMultiplier = t.AllyMultiplier
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateDatabase(c.Database),
		validateProgression(c.Progression),
		validateBalance(c.Balance),
		validateSettings(c.Settings),
		validateSimHost(c.SimHost),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func joinErrs(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 || d.MinConns > d.MaxConns {
		errs = append(errs, fmt.Sprintf("database.min_conns must be in [0, max_conns], got %d", d.MinConns))
	}
	return joinErrs(errs)
}

func validateProgression(p ProgressionConfig) error {
	var errs []string
	if p.BaseExperience <= 0 {
		errs = append(errs, fmt.Sprintf("progression.base_experience must be > 0, got %g", p.BaseExperience))
	}
	if p.ExperienceMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("progression.experience_multiplier must be > 0, got %g", p.ExperienceMultiplier))
	}
	for name, v := range map[string]float64{
		"skill_scale":                    p.SkillScale,
		"attack_experience":              p.AttackExperience,
		"social_interaction_experience":  p.SocialInteractionExperience,
		"growing_scale":                  p.GrowingScale,
		"haul_experience_per_kg":         p.HaulExperiencePerKg,
		"production_experience_per_unit": p.ProductionExperiencePerUnit,
		"training_experience":            p.TrainingExperience,
		"birth_experience":               p.BirthExperience,
		"activity_experience":            p.ActivityExperience,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("progression.%s must be >= 0, got %g", name, v))
		}
	}
	return joinErrs(errs)
}

func validateBalance(b BalanceConfig) error {
	var errs []string
	if b.EnemyMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("balance.enemy_multiplier must be > 0, got %g", b.EnemyMultiplier))
	}
	if b.AllyMultiplier <= 0 {
		errs = append(errs, fmt.Sprintf("balance.ally_multiplier must be > 0, got %g", b.AllyMultiplier))
	}
	if b.CacheIntervalTicks < 0 {
		errs = append(errs, fmt.Sprintf("balance.cache_interval_ticks must be >= 0, got %d", b.CacheIntervalTicks))
	}
	return joinErrs(errs)
}

func validateSettings(s SettingsConfig) error {
	valid := map[string]bool{"memory": true, "file": true, "redis": true, "postgres": true}
	if !valid[s.Backend] {
		return fmt.Errorf("settings.backend must be one of [memory, file, redis, postgres], got %q", s.Backend)
	}
	if s.Backend == "file" && s.File == "" {
		return fmt.Errorf("settings.file must not be empty for the file backend")
	}
	return nil
}

func validateSimHost(s SimHostConfig) error {
	var errs []string
	if s.TickInterval <= 0 {
		errs = append(errs, "simhost.tick_interval must be positive")
	}
	if s.TicksPerStep < 1 {
		errs = append(errs, fmt.Sprintf("simhost.ticks_per_step must be >= 1, got %d", s.TicksPerStep))
	}
	if s.RepollTicks < 1 {
		errs = append(errs, fmt.Sprintf("simhost.repoll_ticks must be >= 1, got %d", s.RepollTicks))
	}
	if s.Difficulty < 0 {
		errs = append(errs, fmt.Sprintf("simhost.difficulty must be >= 0, got %g", s.Difficulty))
	}
	if s.Storage != "memory" && s.Storage != "postgres" {
		errs = append(errs, fmt.Sprintf("simhost.storage must be one of [memory, postgres], got %q", s.Storage))
	}
	if s.InstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("simhost.instruction_limit must be >= 1, got %d", s.InstructionLimit))
	}
	return joinErrs(errs)
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path loads defaults
// and environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	}

	// Environment variable overrides with RPGSTAT_ prefix
	v.SetEnvPrefix("RPGSTAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.debug", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "rpgstat")
	v.SetDefault("database.password", "rpgstat")
	v.SetDefault("database.name", "rpgstat")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "rpgstat")

	v.SetDefault("progression.base_experience", 1000.0)
	v.SetDefault("progression.experience_multiplier", 1.0)
	v.SetDefault("progression.work_experience", true)
	v.SetDefault("progression.combat_experience", true)
	v.SetDefault("progression.social_experience", true)
	v.SetDefault("progression.animal_experience", true)
	v.SetDefault("progression.skill_scale", 10.0)
	v.SetDefault("progression.attack_experience", 20.0)
	v.SetDefault("progression.social_interaction_experience", 10.0)
	v.SetDefault("progression.growing_scale", 1.0)
	v.SetDefault("progression.haul_experience_per_kg", 0.5)
	v.SetDefault("progression.production_experience_per_unit", 1.0)
	v.SetDefault("progression.training_experience", 15.0)
	v.SetDefault("progression.birth_experience", 50.0)
	v.SetDefault("progression.activity_experience", 10.0)

	v.SetDefault("stats.animal_enabled", true)
	v.SetDefault("stats.catalog_file", "")

	v.SetDefault("balance.enabled", true)
	v.SetDefault("balance.enemy_multiplier", 1.0)
	v.SetDefault("balance.ally_multiplier", 1.0)
	v.SetDefault("balance.cache_interval_ticks", 2500)

	v.SetDefault("settings.backend", "memory")
	v.SetDefault("settings.file", "")

	v.SetDefault("simhost.tick_interval", "100ms")
	v.SetDefault("simhost.ticks_per_step", 60)
	v.SetDefault("simhost.repoll_ticks", 250)
	v.SetDefault("simhost.difficulty", 1.0)
	v.SetDefault("simhost.storage", "memory")
	v.SetDefault("simhost.instruction_limit", 1000000)
}

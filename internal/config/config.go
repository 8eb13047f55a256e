package config

import (
	"strings"
	"time"

	"alcyxob/health-tracker/internal/metrics"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	S3         S3Config         `mapstructure:"s3"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Generation GenerationConfig `mapstructure:"generation"`
}

type ServerConfig struct {
	Address   string     `mapstructure:"address"`
	Mode      string     `mapstructure:"mode"` // gin mode: debug, release, test
	PublicURL string     `mapstructure:"public_url"`
	Cors      CorsConfig `mapstructure:"cors"`
}

type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	URI            string        `mapstructure:"uri"`
	Name           string        `mapstructure:"name"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// RedisConfig configures the lock backend. An empty address selects in-process locks.
type RedisConfig struct {
	Address     string        `mapstructure:"address"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	LockTTL     time.Duration `mapstructure:"lock_ttl"`
	LockMaxWait time.Duration `mapstructure:"lock_max_wait"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig holds the secret used to verify bearer tokens issued by the identity provider.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// ThresholdConfig is one tri-state status table.
type ThresholdConfig struct {
	Upper float64 `mapstructure:"upper"`
	Lower float64 `mapstructure:"lower"`
	High  string  `mapstructure:"high"`
	Mid   string  `mapstructure:"mid"`
	Low   string  `mapstructure:"low"`
}

// TargetsConfig holds the defaults substituted when a record has no target yet.
type TargetsConfig struct {
	Calories       float64 `mapstructure:"calories"`
	WaterMl        float64 `mapstructure:"water_ml"`
	SleepHours     float64 `mapstructure:"sleep_hours"`
	WorkoutMinutes float64 `mapstructure:"workout_minutes"`
}

// MetricsConfig feeds the derived-metrics engine.
type MetricsConfig struct {
	CentimetersPerFoot float64         `mapstructure:"cm_per_foot"`
	KilogramsPerPound  float64         `mapstructure:"kg_per_pound"`
	KilometersPerMile  float64         `mapstructure:"km_per_mile"`
	GlassSizeMl        float64         `mapstructure:"glass_size_ml"`
	HistoryDays        int             `mapstructure:"history_days"` // retained window for bestDay and dailyAverage
	Calories           ThresholdConfig `mapstructure:"calories"`
	Water              ThresholdConfig `mapstructure:"water"`
	Sleep              ThresholdConfig `mapstructure:"sleep"`
	Workout            ThresholdConfig `mapstructure:"workout"`
	DefaultTargets     TargetsConfig   `mapstructure:"default_targets"`
}

// GenerationConfig drives the cooldown gate and the generation worker.
type GenerationConfig struct {
	Cooldown          time.Duration `mapstructure:"cooldown"`
	MaxAttempts       int           `mapstructure:"max_attempts"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	BatchSize         int64         `mapstructure:"batch_size"`
	ArtifactURLExpiry time.Duration `mapstructure:"artifact_url_expiry"`
	WorkerEnabled     bool          `mapstructure:"worker_enabled"`
}

func (t ThresholdConfig) toThresholds() metrics.Thresholds {
	return metrics.Thresholds{Upper: t.Upper, Lower: t.Lower, High: t.High, Mid: t.Mid, Low: t.Low}
}

// EngineConfig converts the metrics section into the engine's configuration.
func (m MetricsConfig) EngineConfig() metrics.Config {
	return metrics.Config{
		Conversion: metrics.Conversion{
			CentimetersPerFoot: m.CentimetersPerFoot,
			KilogramsPerPound:  m.KilogramsPerPound,
			KilometersPerMile:  m.KilometersPerMile,
		},
		Calories:    m.Calories.toThresholds(),
		Water:       m.Water.toThresholds(),
		Sleep:       m.Sleep.toThresholds(),
		Workout:     m.Workout.toThresholds(),
		GlassSizeMl: m.GlassSizeMl,
	}
}

func setThresholdDefaults(v *viper.Viper, key string, t metrics.Thresholds) {
	v.SetDefault(key+".upper", t.Upper)
	v.SetDefault(key+".lower", t.Lower)
	v.SetDefault(key+".high", t.High)
	v.SetDefault(key+".mid", t.Mid)
	v.SetDefault(key+".low", t.Low)
}

// LoadConfig reads configuration from config.yaml in path, then environment
// variables (server.address -> SERVER_ADDRESS).
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "health_tracker")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "10s")
	v.SetDefault("redis.lock_max_wait", "5s")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")

	v.SetDefault("metrics.cm_per_foot", metrics.DefaultConversion.CentimetersPerFoot)
	v.SetDefault("metrics.kg_per_pound", metrics.DefaultConversion.KilogramsPerPound)
	v.SetDefault("metrics.km_per_mile", metrics.DefaultConversion.KilometersPerMile)
	v.SetDefault("metrics.glass_size_ml", 250)
	v.SetDefault("metrics.history_days", 30)
	setThresholdDefaults(v, "metrics.calories", metrics.CalorieThresholds)
	setThresholdDefaults(v, "metrics.water", metrics.WaterThresholds)
	setThresholdDefaults(v, "metrics.sleep", metrics.SleepThresholds)
	setThresholdDefaults(v, "metrics.workout", metrics.WorkoutThresholds)
	v.SetDefault("metrics.default_targets.calories", 2000)
	v.SetDefault("metrics.default_targets.water_ml", 2000)
	v.SetDefault("metrics.default_targets.sleep_hours", 8)
	v.SetDefault("metrics.default_targets.workout_minutes", 30)

	v.SetDefault("generation.cooldown", "360h") // 15 days
	v.SetDefault("generation.max_attempts", 3)
	v.SetDefault("generation.poll_interval", "30s")
	v.SetDefault("generation.batch_size", 10)
	v.SetDefault("generation.artifact_url_expiry", "15m")
	v.SetDefault("generation.worker_enabled", true)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: defaults and env vars only
		err = nil
	} else if err != nil {
		return
	}

	// Durations such as "360h" decode straight into time.Duration fields.
	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Solver   SolverConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig carries every GA tunable from spec section 4.5/6, plus the
// optional-extension flags from section 9's open question and SPEC_FULL's
// supplemented constraints.
type SolverConfig struct {
	PopSize     int
	Generations int
	TournamentK int
	PCross      float64
	PMut        float64
	Seed        int64
	HardWeight  float64

	EnableCurriculumClash         bool
	EnableExtendedSoftConstraints bool

	// Workers bounds parallel population construction/evaluation (spec
	// section 5). 1 keeps the run bit-for-bit reproducible against the
	// serial specification.
	Workers int

	// ProposalTTL controls how long a generated-but-uncommitted run survives
	// in the generator service's in-memory run store before expiring.
	ProposalTTL time.Duration

	// AsyncThreshold is the course count above which generation requests are
	// queued to pkg/jobs instead of run inline.
	AsyncThreshold int
}

// ExportsConfig configures schedule export rendering and signed download
// links, repurposed from the teacher's report-export feature.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Solver = SolverConfig{
		PopSize:                       v.GetInt("SOLVER_POP_SIZE"),
		Generations:                   v.GetInt("SOLVER_GENERATIONS"),
		TournamentK:                   v.GetInt("SOLVER_TOURNAMENT_K"),
		PCross:                        v.GetFloat64("SOLVER_P_CROSS"),
		PMut:                          v.GetFloat64("SOLVER_P_MUT"),
		Seed:                          v.GetInt64("SOLVER_SEED"),
		HardWeight:                    v.GetFloat64("SOLVER_HARD_WEIGHT"),
		EnableCurriculumClash:         v.GetBool("SOLVER_ENABLE_CURRICULUM_CLASH"),
		EnableExtendedSoftConstraints: v.GetBool("SOLVER_ENABLE_EXTENDED_SOFT"),
		Workers:                       v.GetInt("SOLVER_WORKERS"),
		ProposalTTL:                   parseDuration(v.GetString("SOLVER_PROPOSAL_TTL"), 30*time.Minute),
		AsyncThreshold:                v.GetInt("SOLVER_ASYNC_THRESHOLD"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "cb_ttp_engine")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SOLVER_POP_SIZE", 100)
	v.SetDefault("SOLVER_GENERATIONS", 200)
	v.SetDefault("SOLVER_TOURNAMENT_K", 3)
	v.SetDefault("SOLVER_P_CROSS", 0.8)
	v.SetDefault("SOLVER_P_MUT", 0.2)
	v.SetDefault("SOLVER_SEED", 1)
	v.SetDefault("SOLVER_HARD_WEIGHT", 1_000_000.0)
	v.SetDefault("SOLVER_ENABLE_CURRICULUM_CLASH", true)
	v.SetDefault("SOLVER_ENABLE_EXTENDED_SOFT", false)
	v.SetDefault("SOLVER_WORKERS", 1)
	v.SetDefault("SOLVER_PROPOSAL_TTL", "30m")
	v.SetDefault("SOLVER_ASYNC_THRESHOLD", 40)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

package bootstrap

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mengfanShi/MiniCPM-V/internal/model"
	"github.com/mengfanShi/MiniCPM-V/internal/ollama"
)

type Config struct {
	ServerAddr string
	LogLevel   string
	BodyLimit  string

	ModelBackend     string
	ModelDir         string
	ModelPaths       map[string]string
	DefaultModel     string
	RunnerURL        string
	OllamaURL        string
	InferenceTimeout time.Duration

	ImagePrompt       string
	VideoSystemPrompt string
	VideoPrompt       string

	DatabaseDriver string
	DatabaseDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

const (
	BackendRunner = "runner"
	BackendOllama = "ollama"
)

func LoadConfig() *Config {
	modelDir := getEnv("MODEL_DIR", "model")
	backend := getEnv("MODEL_BACKEND", BackendRunner)

	var modelPaths map[string]string
	if backend == BackendOllama {
		modelPaths = parseModelPaths(getEnv("MODEL_PATHS", ""), ollama.DefaultNames(), "")
	} else {
		modelPaths = parseModelPaths(getEnv("MODEL_PATHS", ""), model.DefaultPaths(modelDir), modelDir)
	}

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8888"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		BodyLimit:  getEnv("BODY_LIMIT", "64M"),

		ModelBackend:     backend,
		ModelDir:         modelDir,
		ModelPaths:       modelPaths,
		DefaultModel:     getEnv("DEFAULT_MODEL", model.DefaultID),
		RunnerURL:        getEnv("RUNNER_URL", "http://localhost:9000"),
		OllamaURL:        getEnv("OLLAMA_URL", "http://localhost:11434"),
		InferenceTimeout: getEnvDuration("INFERENCE_TIMEOUT", 5*time.Minute),

		ImagePrompt:       getEnv("IMAGE_PROMPT", ""),
		VideoSystemPrompt: getEnv("VIDEO_SYSTEM_PROMPT", ""),
		VideoPrompt:       getEnv("VIDEO_PROMPT", ""),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "sqlite"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "captions.db"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseModelPaths applies "id=path" overrides on top of defaults. When dir is
// set, relative override paths resolve against it.
func parseModelPaths(envValue string, defaults map[string]string, dir string) map[string]string {
	paths := make(map[string]string, len(defaults))
	for id, path := range defaults {
		paths[id] = path
	}

	for _, entry := range strings.Split(envValue, ",") {
		id, path, ok := strings.Cut(strings.TrimSpace(entry), "=")
		id, path = strings.TrimSpace(id), strings.TrimSpace(path)
		if !ok || id == "" || path == "" {
			continue
		}
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		paths[id] = path
	}

	return paths
}

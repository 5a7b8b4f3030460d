package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"restaurant-viability/internal/ai"
	"restaurant-viability/internal/api"
	"restaurant-viability/internal/datagov"
)

func main() {
	_ = godotenv.Load()

	baseDir, err := os.Getwd()
	if err != nil {
		logrus.Fatalf("determine working directory: %v", err)
	}

	dataDir := filepath.Join(baseDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logrus.Fatalf("create data directory: %v", err)
	}

	aiCfg := ai.Config{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   os.Getenv("OPENAI_MODEL"),
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	}
	if temp := os.Getenv("OPENAI_TEMPERATURE"); temp != "" {
		if v, err := strconv.ParseFloat(temp, 64); err == nil {
			aiCfg.Temperature = v
		}
	}
	if maxTokens := os.Getenv("OPENAI_MAX_TOKENS"); maxTokens != "" {
		if v, err := strconv.Atoi(maxTokens); err == nil {
			aiCfg.MaxTokens = v
		}
	}

	govCfg := datagov.Config{}
	if timeout := os.Getenv("DATAGOV_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			govCfg.Timeout = d
		}
	}
	if ttl := os.Getenv("DATAGOV_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			govCfg.CacheTTL = d
		}
	}
	if limit := os.Getenv("DATAGOV_LIMIT"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil {
			govCfg.Limit = v
		}
	}

	radiusKM := 0.0
	if v := strings.TrimSpace(os.Getenv("RADIUS_KM")); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 {
			radiusKM = val
		}
	}
	topK := 0
	if v := strings.TrimSpace(os.Getenv("TOP_K")); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			topK = val
		}
	}

	disableAI := strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_AI")), "true")
	disableDataGov := strings.EqualFold(strings.TrimSpace(os.Getenv("DISABLE_DATAGOV")), "true")

	cfg := api.Config{
		DBPath: filepath.Join(dataDir, "viability.db"),
		AllowedOrigins: []string{
			"http://localhost:1000",
			"http://127.0.0.1:1000",
		},
		AIConfig:       aiCfg,
		DisableAI:      disableAI,
		DataGovConfig:  govCfg,
		DisableDataGov: disableDataGov,
		CorrectorPath:  strings.TrimSpace(os.Getenv("CORRECTOR_WEIGHTS_PATH")),
		AreasPath:      strings.TrimSpace(os.Getenv("PLANNING_AREAS_PATH")),
		RadiusKM:       radiusKM,
		TopK:           topK,
	}

	if override := strings.TrimSpace(os.Getenv("VIABILITY_DB_PATH")); override != "" {
		cfg.DBPath = override
	}

	server, err := api.NewServer(cfg)
	if err != nil {
		logrus.Fatalf("create server: %v", err)
	}

	router, err := server.Router()
	if err != nil {
		logrus.Fatalf("configure router: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "2000"
	}

	logrus.Infof("starting restaurant-viability backend on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

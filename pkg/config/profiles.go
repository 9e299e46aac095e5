package config

func loadDevelopmentConfig(cfg *Config) {
	cfg.DatabaseDebug = true
	cfg.DatabaseURL = "./tmp/suomisf.sqlite"
	cfg.ServerHost = "127.0.0.1"
	cfg.SecretKey = "development-secret"
	cfg.JWTSecretKey = "development-jwt-secret"
}

func loadTestConfig(cfg *Config) {
	cfg.DatabaseURL = ":memory:"
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.ServerHost = "127.0.0.1"
	cfg.SecretKey = "test-secret"
	cfg.JWTSecretKey = "test-jwt-secret"
}

func loadStagingConfig(cfg *Config) {
	cfg.DatabaseURL = "/data/suomisf-staging.sqlite"
}

func loadProductionConfig(cfg *Config) {
	cfg.DatabaseURL = "/data/suomisf.sqlite"
}

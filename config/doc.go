// Package config loads service configuration with Viper.
//
// Values come from cmd/<service>/config.yml, an optional .env file loaded
// with godotenv, and the process environment, in increasing priority.
// Nested keys map to upper snake case variables:
//
//	auth.jwt.secret  ->  AUTH_JWT_SECRET
//	store.mongo.uri  ->  STORE_MONGO_URI
//
// # Usage
//
//	var cfg AppConfig
//	if err := config.LoadConfig("userauth", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config

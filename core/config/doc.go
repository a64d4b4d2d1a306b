// Package config provides configuration management for admanager-sync.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - GAM: Ad Manager network code and service-account credentials
//   - Storage: S3/MinIO settings for the optional report archive
//   - Database: MySQL connection for the optional sync audit trail
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.GAM.NetworkCode)
package config

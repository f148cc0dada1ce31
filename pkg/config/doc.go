// Package config loads typed configuration structs from environment
// variables (plus an optional .env file for development), caching each
// config type so every component in the process sees the same values.
package config

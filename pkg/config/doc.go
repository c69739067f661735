// Package config loads env-tagged configuration structs.
//
// Every package that needs configuration declares its own struct with
// caarlos0/env tags (PG_*, REDIS_*, PASSCODE_*, ...). Load parses the process
// environment, after reading an optional .env file with godotenv, and caches
// the result per type. Structs implementing Validator are checked after
// parsing so impossible combinations fail at startup.
package config

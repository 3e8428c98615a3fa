//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package config

// AppEnv names the deployment the process runs in
// ENUM(local,production,development,testing)
type AppEnv string

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const DefaultIBPUsername = "GPT"

// Init wires environment variables, the optional dotenv file and the root
// command's persistent flags into viper. The dotenv file is loaded once flags
// have been parsed so --env-file can point somewhere else.
func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	setDefaults()
	if root != nil {
		bindFlags(root.PersistentFlags())
	}
	cobra.OnInitialize(loadEnvFile)
}

func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(flagKey(f.Name), f)
	})
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

func loadEnvFile() {
	if path := EnvFile(); path != "" {
		_ = godotenv.Load(path)
	}
}

func setDefaults() {
	viper.SetDefault(KeyEnvFile, ".env")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyTransport, "stdio")
	viper.SetDefault(KeyHost, "0.0.0.0")
	viper.SetDefault(KeyPort, 8000)
	viper.SetDefault(KeyIBPUsername, DefaultIBPUsername)
	viper.SetDefault(KeyIBPTimeout, "60s")
	viper.SetDefault(KeyIBPMaxResults, 30)
}

func EnvFile() string          { return viper.GetString(KeyEnvFile) }
func LogLevel() string         { return viper.GetString(KeyLogLevel) }
func Transport() string        { return strings.ToLower(viper.GetString(KeyTransport)) }
func Host() string             { return viper.GetString(KeyHost) }
func Port() int                { return viper.GetInt(KeyPort) }
func IBPURL() string           { return viper.GetString(KeyIBPURL) }
func IBPUsername() string      { return viper.GetString(KeyIBPUsername) }
func IBPPassword() string      { return viper.GetString(KeyIBPPassword) }
func IBPMaxResults() int       { return viper.GetInt(KeyIBPMaxResults) }
func IBPTokenURL() string      { return viper.GetString(KeyIBPTokenURL) }
func IBPClientID() string      { return viper.GetString(KeyIBPClientID) }
func IBPClientSecret() string  { return viper.GetString(KeyIBPClientSecret) }
func AttributeMapFile() string { return viper.GetString(KeyAttributeMapFile) }

// IBPRequestTimeout parses the per-request timeout. Zero disables it.
func IBPRequestTimeout() (time.Duration, error) {
	d, err := parseDuration(viper.GetString(KeyIBPTimeout), 0)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", KeyIBPTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", KeyIBPTimeout)
	}
	return d, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	return time.ParseDuration(trimmed)
}

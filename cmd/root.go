package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "career-pilot"
)

type Config struct {
	Database    string         `mapstructure:"database"`
	TopN        int            `mapstructure:"top-n" validate:"gte=0,lte=15"`
	Location    string         `mapstructure:"location"`
	Remote      string         `mapstructure:"remote" validate:"omitempty,oneof=remote onsite hybrid any"`
	Concurrency int            `mapstructure:"concurrency" validate:"gte=1,lte=32"`
	AI          *AIConfig      `mapstructure:"ai"`
	Jobs        *JobsConfig    `mapstructure:"jobs"`
	Roadmap     *RoadmapConfig `mapstructure:"roadmap"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini" validate:"required_if=Enabled true"`
}

type GeminiConfig struct {
	APIKeyFile        string        `mapstructure:"api-key-file"`
	Model             string        `mapstructure:"model"`
	MaxRetries        int           `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	Temperature       float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	RequestsPerMinute int           `mapstructure:"requests-per-minute" validate:"gte=0"`
	MaxLogLength      int           `mapstructure:"max-log-length" validate:"gte=0"`
}

type JobsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Host       string `mapstructure:"host"`
	BaseURL    string `mapstructure:"base-url" validate:"omitempty,url"`
	NumPages   int    `mapstructure:"num-pages" validate:"gte=0,lte=10"`
	UserAgent  string `mapstructure:"user-agent"`
}

type RoadmapConfig struct {
	Days int `mapstructure:"days" validate:"gte=0,lte=90"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-pilot turns a resume into career recommendations, matching jobs, an ATS score and a daily plan",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"jobs.api-key-file":      "RAPIDAPI_KEY_FILE",
		"database":               "CAREER_PILOT_DATABASE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-pilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("database", "", "sqlite database for results (empty disables persistence)")
	rootCmd.PersistentFlags().Bool("no-ai", false, "use only the deterministic rule engines")
	rootCmd.PersistentFlags().StringP("location", "l", "", "preferred job location")
	rootCmd.PersistentFlags().String("remote", "", "remote preference: remote, onsite, hybrid or any")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("no-ai", rootCmd.PersistentFlags().Lookup("no-ai"))
	viper.BindPFlag("location", rootCmd.PersistentFlags().Lookup("location"))
	viper.BindPFlag("remote", rootCmd.PersistentFlags().Lookup("remote"))
}

func setDefaults() {
	viper.SetDefault("concurrency", 2)
	viper.SetDefault("remote", "any")
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.timeout", "60s")
	viper.SetDefault("jobs.enabled", true)
	viper.SetDefault("roadmap.days", 7)
}

func initConfig() {
	// A .env file is optional; real environment variables win over it.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly requested file must exist and parse. Without one, defaults are enough.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	if config == nil {
		config = &Config{}
	}

	if err := validateConfig(config); err != nil {
		return config, err
	}

	return config, nil
}

var validate = validator.New()

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			fields := make([]string, 0, len(invalid))
			for _, fe := range invalid {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

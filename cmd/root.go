package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "interview-coach"

	defaultRole      = "Software Engineer"
	defaultQuestions = 5
	defaultProvider  = "gemini"
	defaultListen    = "127.0.0.1:8080"
)

type Config struct {
	Interview *InterviewConfig `mapstructure:"interview"`
	AI        *AIConfig        `mapstructure:"ai"`
	Server    *ServerConfig    `mapstructure:"server"`
}

type InterviewConfig struct {
	Role      string `mapstructure:"role"`
	Questions int    `mapstructure:"questions"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interview-coach is a mock interview trainer driven by an AI interviewer",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interview-coach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// All keys have defaults, so a missing config file is fine. A broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
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

	if config.Interview == nil {
		config.Interview = &InterviewConfig{}
	}
	if config.Interview.Role == "" {
		config.Interview.Role = defaultRole
	}
	if config.Interview.Questions <= 0 {
		config.Interview.Questions = defaultQuestions
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Provider == "" {
		config.AI.Provider = defaultProvider
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Server.Listen == "" {
		config.Server.Listen = defaultListen
	}

	return config, nil
}

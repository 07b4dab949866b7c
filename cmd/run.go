package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/interview"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

// Typing any of these ends the interview early.
var exitWords = map[string]bool{
	"exit": true,
	"quit": true,
	"stop": true,
}

var feedbackPrompt = promptui.Select{
	Label: "Generate feedback for this interview?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a mock interview in the console",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("role", "r", "", "the role to interview for")
	runCmd.Flags().IntP("questions", "q", 0, "how many main questions to ask")

	viper.BindPFlag("interview.role", runCmd.Flags().Lookup("role"))
	viper.BindPFlag("interview.questions", runCmd.Flags().Lookup("questions"))
}

// run drives a full interview over stdin and stdout.
func run(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	generator, err := buildGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal(
			"building the ai generator",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE environment variable or the 'ai.gemini.api-key-file' key in the configuration file"),
		)
	}

	service := interview.NewService(generator, logger)

	id, question, err := service.Start(ctx, config.Interview.Role, config.Interview.Questions)
	if err != nil {
		logger.Fatal("starting the interview", zap.Error(err))
	}

	fmt.Printf("\nStarting a mock interview for role: %s\n", config.Interview.Role)
	fmt.Println("(Type 'exit' anytime to stop)")
	fmt.Printf("\nInterviewer: %s\n\n", question)

	answerPrompt := promptui.Prompt{Label: "You"}

	for {
		answer, err := answerPrompt.Run()
		if err != nil {
			logger.Fatal("reading the answer", zap.Error(err))
		}

		if exitWords[strings.ToLower(strings.TrimSpace(answer))] {
			fmt.Println("\nEnding the interview early as requested.")
			break
		}

		message, finished, err := service.SubmitAnswer(ctx, id, answer)
		if err != nil {
			logger.Fatal("submitting the answer", zap.Error(err))
		}

		if finished {
			fmt.Println("\nThat was the last question, thank you!")
			break
		}

		fmt.Printf("\nInterviewer: %s\n\n", message)
	}

	_, action, err := feedbackPrompt.Run()
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	if action == PromptNo {
		return
	}

	fmt.Println("\nGenerating feedback...")

	report, err := service.Feedback(ctx, id)
	if err != nil {
		logger.Fatal("generating feedback", zap.Error(err))
	}

	fmt.Printf("\n%s\n", report)
}

func buildGenerator(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	keyFile := strings.TrimSpace(cfg.Gemini.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("ai.gemini.api-key-file"))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: keyFile,
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithProvider(baseLogger, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	baseLogger.Debug("ai generator ready", zap.String("model", generator.Model()))

	return generator, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/careercompass/compass-web/internal/models"
	"github.com/careercompass/compass-web/internal/services"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long: `Send a resume, and optionally a job description, to the analysis
service and print the match score and feedback.

The resume may be a PDF, DOCX, Markdown or plain text file.

Example:
  compass analyze --resume cv.pdf --job posting.txt
  compass analyze --resume cv.docx --questions --job posting.txt`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("resume", "", "resume file (pdf, docx, md, txt)")
	analyzeCmd.Flags().String("job", "", "job description file")
	analyzeCmd.Flags().String("endpoint", "http://localhost:8000", "analysis service base URL")
	analyzeCmd.Flags().Duration("timeout", services.DefaultAnalysisTimeout, "give up on the analysis after this long")
	analyzeCmd.Flags().Bool("questions", false, "also generate interview questions (requires --job)")
	analyzeCmd.MarkFlagRequired("resume")

	viper.BindPFlag("endpoint", analyzeCmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("timeout", analyzeCmd.Flags().Lookup("timeout"))
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	withQuestions, _ := cmd.Flags().GetBool("questions")

	extractor := services.NewResumeExtractor()

	resumeText, err := readResume(extractor, resumePath)
	if err != nil {
		return err
	}

	var jobText string
	if jobPath != "" {
		data, err := os.ReadFile(jobPath)
		if err != nil {
			return fmt.Errorf("reading job description: %w", err)
		}
		jobText = string(data)
	}
	if withQuestions && strings.TrimSpace(jobText) == "" {
		return &models.ValidationError{Field: "job", Message: "--questions needs a non-empty job description (--job)"}
	}

	endpoint := viper.GetString("endpoint")
	timeout := viper.GetDuration("timeout")
	if viper.GetBool("verbose") {
		fmt.Fprintf(cmd.ErrOrStderr(), "Analyzing %s against %s (timeout %s)\n", resumePath, endpoint, timeout)
	}

	flow := services.NewAnalysisFlow(services.NewAnalysisClient(endpoint), timeout)
	flow.SetResumeText(resumeText)
	flow.SetJobDescription(jobText)

	// Ctrl-C cancels the in-flight request.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := flow.Submit(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderResult(result))

	if withQuestions {
		questions, err := flow.GenerateQuestions(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, renderQuestions(questions))
	}

	return nil
}

func readResume(extractor *services.ResumeExtractor, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading resume: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	text, err := extractor.ExtractText(filepath.Base(path), contentType, data)
	if err != nil {
		return "", fmt.Errorf("reading resume: %w", err)
	}
	return text, nil
}

// reportError prints the same message the web page would show.
func reportError(w io.Writer, err error) {
	var re *models.RequestError
	var ve *models.ValidationError
	switch {
	case errors.As(err, &re):
		fmt.Fprintln(w, errorStyle.Render(re.UserMessage()))
	case errors.As(err, &ve):
		fmt.Fprintln(w, errorStyle.Render(ve.Message))
	default:
		fmt.Fprintln(w, errorStyle.Render(err.Error()))
	}
}

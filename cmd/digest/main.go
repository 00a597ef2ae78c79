// Command digest runs the summary and tag engine on text read from stdin or a file.
//
//	echo "Meeting notes about the budget" | go run ./cmd/digest
//	go run ./cmd/digest -file notes.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"smart-notes-be/internal/config"
	"smart-notes-be/internal/pkg/logger"
	"smart-notes-be/pkg/digest"
	"smart-notes-be/pkg/llm/huggingface"

	"github.com/fatih/color"
)

func main() {
	file := flag.String("file", "", "read content from this file instead of stdin")
	offline := flag.Bool("offline", false, "skip the remote summarizer and always truncate")
	flag.Parse()

	content, err := readInput(*file)
	if err != nil {
		color.Red("Failed to read input: %v", err)
		os.Exit(1)
	}

	cfg := config.Load()

	var remote digest.RemoteSummarizer
	if !*offline && cfg.Keys.HuggingFace != "" {
		remote = huggingface.NewSummarizationClient(cfg.Keys.HuggingFace, cfg.Ai.SummaryBaseURL, cfg.Ai.SummaryModel, http.DefaultClient)
	}

	engine := digest.New(digest.Config{
		MinLength:      cfg.Ai.SummaryMinLength,
		MaxLength:      cfg.Ai.SummaryMaxLength,
		FallbackLength: cfg.Ai.SummaryFallbackLength,
		Timeout:        cfg.Ai.SummaryTimeout,
	}, remote, logger.NewNopLogger())

	summary, source := engine.SummarizeWithSource(context.Background(), content)
	tags := engine.SuggestTags(content)

	color.Cyan("Summary (%s)", source)
	if summary == "" {
		color.Yellow("  (empty input)")
	} else {
		fmt.Printf("  %s\n", summary)
	}

	color.Cyan("Suggested tags")
	if len(tags) == 0 {
		color.Yellow("  (none)")
		return
	}
	color.Green("  %s", strings.Join(tags, ", "))
}

func readInput(path string) (string, error) {
	if path != "" {
		raw, err := os.ReadFile(path)
		return string(raw), err
	}
	raw, err := io.ReadAll(os.Stdin)
	return string(raw), err
}

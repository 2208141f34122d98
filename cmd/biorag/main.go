package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"biorag/internal/chunker"
	"biorag/internal/config"
	"biorag/internal/domain"
	"biorag/internal/embedding/openai"
	"biorag/internal/embedding/tfidf"
	"biorag/internal/generation/openrouter"
	"biorag/internal/service"
	"biorag/internal/source/files"
	"biorag/internal/source/pubmed"
	"biorag/internal/summarizer"
	"biorag/internal/tui"
	"biorag/internal/vectorstore/memory"
	"biorag/internal/vectorstore/sqlite"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/biorag/config.yaml if not provided)")
	flag.Parse()
	paths := flag.Args()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var ch domain.Chunker
	switch cfg.Chunker.Type {
	case "character", "":
		ch = chunker.NewCharacterChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	case "sentence":
		ch = chunker.NewSentenceChunker(cfg.Chunker.SentencesPerChunk, cfg.Chunker.OverlapSentences)
	default:
		log.Fatalf("unknown chunker: %s", cfg.Chunker.Type)
	}

	var st domain.VectorStore
	switch cfg.Index.Type {
	case "sqlite", "":
		st = sqlite.NewStore(cfg.Index.Path)
	case "memory":
		st = memory.NewStore()
	default:
		log.Fatalf("unknown index type: %s", cfg.Index.Type)
	}

	gen, err := openrouter.NewClient(openrouter.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		MaxTokens:   cfg.Generator.MaxTokens,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}

	svc := service.New(ch, emb, st, gen, summarizer.NewFrequencySummarizer(), cfg.Retriever.TopK, cfg.Summarizer.MaxSentences)

	var pm *pubmed.Client
	if email := os.Getenv(cfg.PubMed.EmailEnv); email != "" {
		pm, err = pubmed.NewClient(pubmed.Config{
			Email:   email,
			Delay:   time.Duration(cfg.PubMed.DelayMillis) * time.Millisecond,
			Timeout: time.Duration(cfg.PubMed.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("pubmed client init failed: %v", err)
		}
	}

	a := &app{
		svc:         svc,
		pubmed:      pm,
		files:       files.NewLoader(),
		paths:       paths,
		maxArticles: cfg.PubMed.MaxArticles,
		emailEnv:    cfg.PubMed.EmailEnv,
	}

	if _, err := tea.NewProgram(tui.New(a)).Run(); err != nil {
		log.Fatal(err)
	}
}

// app glues the document connectors to the application core and adapts
// results into the status strings the TUI shows.
type app struct {
	svc         *service.Assistant
	pubmed      *pubmed.Client
	files       *files.Loader
	paths       []string
	maxArticles int
	emailEnv    string
}

func (a *app) Ready() bool       { return a.svc.Ready() }
func (a *app) IndexOnDisk() bool { return a.svc.IndexOnDisk() }

func (a *app) Build(ctx context.Context, topic string) (string, error) {
	var docs []domain.Document
	skipped := 0

	if topic != "" {
		if a.pubmed == nil {
			return "", fmt.Errorf("PubMed fetching needs a contact email in env %s", a.emailEnv)
		}
		fetched, skippedIDs, err := a.pubmed.Fetch(ctx, topic, a.maxArticles)
		if err != nil {
			return "", err
		}
		docs = append(docs, fetched...)
		skipped += len(skippedIDs)
	}
	if len(a.paths) > 0 {
		loaded, skippedFiles, err := a.files.Load(a.paths)
		if err != nil {
			return "", err
		}
		docs = append(docs, loaded...)
		skipped += len(skippedFiles)
	}
	if len(docs) == 0 {
		return "", fmt.Errorf("no sources: give /build a topic or pass .txt files on the command line")
	}

	result, err := a.svc.BuildKnowledgeBase(ctx, docs)
	if err != nil {
		return "", err
	}
	status := fmt.Sprintf("Knowledge base ready: %d documents, %d chunks.", result.Documents, result.Chunks)
	if skipped > 0 {
		status += fmt.Sprintf(" %d sources skipped.", skipped)
	}
	if result.Summary != "" {
		status += " " + result.Summary
	}
	return status, nil
}

func (a *app) Load(ctx context.Context) (string, error) {
	if err := a.svc.LoadKnowledgeBase(); err != nil {
		return "", err
	}
	return "Knowledge base loaded.", nil
}

func (a *app) Ask(ctx context.Context, question string) (string, error) {
	return a.svc.Ask(ctx, question)
}

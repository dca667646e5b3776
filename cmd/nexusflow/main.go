package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"nexus/internal/channels/linear"
	"nexus/internal/channels/phone"
	"nexus/internal/channels/resend"
	"nexus/internal/classifier"
	"nexus/internal/config"
	"nexus/internal/dedupe"
	"nexus/internal/dispatch"
	"nexus/internal/llm"
	"nexus/internal/sequence"
	"nexus/internal/store"
	t "nexus/internal/types"
)

func main() {
	projectsPath := flag.String("projects", "", "path to a JSON file with the project action lists")
	outDir := flag.String("out", "out", "output directory")
	model := flag.String("model", "", "model id (overrides NEXUS_MODEL)")
	doDispatch := flag.Bool("dispatch", false, "dispatch entry actions after linking")
	fakeLLM := flag.Bool("fake-llm", false, "use the offline fake model")
	flag.Parse()

	inputs := flag.Args()
	if *projectsPath != "" {
		inputs = append([]string{*projectsPath}, inputs...)
	}
	if len(inputs) == 0 {
		log.Fatal("--projects (or positional input files) is required")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	if *model != "" {
		cfg.Model = *model
	}

	ctx := context.Background()

	var llmCli llm.LLMClient
	switch {
	case *fakeLLM:
		llmCli = llm.NewFakeClient()
	case cfg.GeminiAPIKey != "":
		cli, err := llm.NewGeminiClient(ctx, modelOr(cfg.Model, "gemini-2.5-flash"))
		if err != nil {
			log.Fatal(err)
		}
		llmCli = cli
	case cfg.OpenAIAPIKey != "":
		cli, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, modelOr(cfg.Model, "gpt-4o-mini"))
		if err != nil {
			log.Fatal(err)
		}
		llmCli = cli
	default:
		log.Fatal("set GEMINI_API_KEY or OPENAI_API_KEY (or pass --fake-llm)")
	}
	llmCli = llm.Wrap(llmCli,
		llm.WithLogging(nil),
		llm.RateLimitFromEnv("CLASSIFIER", "LLM"),
		llm.WithHooks(),
	)
	defer llmCli.Close()

	seen, err := dedupe.New(256)
	if err != nil {
		log.Fatal(err)
	}
	projects := loadProjects(inputs, seen)
	log.Printf("loaded %d projects from %d input files", len(projects), len(inputs))

	builder := sequence.NewBuilder(classifier.NewLLMClassifier(llmCli))
	linked, err := builder.LinkAll(ctx, projects)
	if err != nil {
		log.Fatal(err)
	}
	writeJSON(*outDir, "linked.json", linked)
	log.Printf("linked %d projects → %s", len(linked), filepath.Join(*outDir, "linked.json"))

	db := store.NewFromEnv()
	defer db.Close()
	if err := db.SaveLinkedProjects(ctx, linked); err != nil {
		log.Printf("persist linked projects: %v", err)
	}

	if !*doDispatch {
		return
	}

	d := dispatch.New(cfg.Dispatch(), linear.New(), resend.New(), phone.New())
	result := d.Dispatch(ctx, linked)
	writeJSON(*outDir, "dispatch.json", result)
	log.Printf("dispatched: %d tickets, %d emails, %d calls → %s",
		result.TicketsCreated, result.EmailsSent, result.CallsMade,
		filepath.Join(*outDir, "dispatch.json"))

	if err := db.RecordDispatch(ctx, result); err != nil {
		log.Printf("persist dispatch log: %v", err)
	}
}

// loadProjects reads every input file, skipping byte-identical duplicates by
// content hash.
func loadProjects(paths []string, seen *dedupe.Seen) []t.Project {
	var out []t.Project
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			log.Fatalf("failed to read %s: %v", p, err)
		}
		sum := sha256.Sum256(b)
		if !seen.Check(hex.EncodeToString(sum[:])) {
			log.Printf("skipping duplicate input %s", p)
			continue
		}
		var projects []t.Project
		if err := json.Unmarshal(b, &projects); err != nil {
			log.Fatalf("failed to unmarshal %s: %v", p, err)
		}
		out = append(out, projects...)
	}
	return out
}

func modelOr(model, fallback string) string {
	if model != "" {
		return model
	}
	return fallback
}

func writeJSON(dir, name string, v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	os.WriteFile(filepath.Join(dir, name), b, 0o644)
}

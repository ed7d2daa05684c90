// cmd/tools/pipeline-runner/main.go
//
// Runs the trend pipeline stage by stage without a Zeebe broker, exchanging
// staged JSON files in the output directory:
//
//	trends.json          collected signals
//	filtered_trends.json scored shortlist
//	content_plan.json    weekly content plan
//
// Each stage reads its predecessor's file, so stages can be re-run in
// isolation while iterating.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sorabhv/social-media-strategist/internal/common/config"
	"github.com/sorabhv/social-media-strategist/internal/common/logger"
	"github.com/sorabhv/social-media-strategist/internal/connectors"
	"github.com/sorabhv/social-media-strategist/internal/models"
	"github.com/sorabhv/social-media-strategist/internal/niche"
	"github.com/sorabhv/social-media-strategist/internal/schedule"

	bcp "github.com/sorabhv/social-media-strategist/internal/workers/planning/build-content-plan"
	ct "github.com/sorabhv/social-media-strategist/internal/workers/trends/collect-trends"
	st "github.com/sorabhv/social-media-strategist/internal/workers/trends/score-trends"
)

const (
	trendsFile   = "trends.json"
	filteredFile = "filtered_trends.json"
	planFile     = "content_plan.json"
)

func main() {
	businessType := flag.String("business-type", "", "Niche key, e.g. coffee_shop")
	country := flag.String("country", "US", "Two-letter country code")
	profilePath := flag.String("profile", "", "Optional path to a business profile JSON file")
	outDir := flag.String("out", "pipeline-output", "Directory for staged files")
	stage := flag.String("stage", "all", "Stage to run: collect, score, plan, or all")
	topK := flag.Int("top-k", 0, "Shortlist size override (0 = default)")
	flag.Parse()

	if *businessType == "" && (*stage == "all" || *stage == "collect") {
		fmt.Fprintln(os.Stderr, "Error: -business-type is required")
		flag.Usage()
		os.Exit(1)
	}

	log := logger.NewStructured("info", "console")

	cfg, err := config.Load()
	if err != nil {
		fatal("config load failed: %v", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal("create output dir: %v", err)
	}

	profile, err := loadProfile(*profilePath)
	if err != nil {
		fatal("load profile: %v", err)
	}

	ctx := context.Background()

	switch *stage {
	case "collect":
		runCollect(ctx, cfg, log, *businessType, *country, *outDir)
	case "score":
		runScore(ctx, cfg, log, profile, *topK, *outDir)
	case "plan":
		runPlan(ctx, cfg, log, profile, *outDir)
	case "all":
		runCollect(ctx, cfg, log, *businessType, *country, *outDir)
		runScore(ctx, cfg, log, profile, *topK, *outDir)
		runPlan(ctx, cfg, log, profile, *outDir)
	default:
		fatal("unknown stage: %s", *stage)
	}
}

func runCollect(ctx context.Context, cfg *config.Config, log logger.Logger, businessType, country, outDir string) {
	niches, err := niche.Load(cfg.References.NichePath)
	if err != nil {
		fatal("niche reference load failed: %v", err)
	}

	handler := ct.NewHandler(ct.LoadConfig(), buildConnectors(cfg, log), niches, nil, log)
	output, err := handler.Execute(ctx, &ct.Input{
		BusinessType: businessType,
		Country:      country,
	})
	if err != nil {
		fatal("collect stage failed: %v", err)
	}

	writeStage(outDir, trendsFile, output)
	fmt.Printf("Collected %d signals (%d before dedupe) -> %s\n",
		output.Summary.Total, output.Summary.Total+output.Summary.Deduped, filepath.Join(outDir, trendsFile))
}

func runScore(ctx context.Context, cfg *config.Config, log logger.Logger, profile *models.BusinessProfile, topK int, outDir string) {
	var collected ct.Output
	readStage(outDir, trendsFile, &collected)

	stConfig := st.LoadConfig()
	var reranker st.Reranker
	if cfg.APIs.GenAI.Enabled && cfg.APIs.GenAI.BaseURL != "" {
		reranker = st.NewGenAIReranker(cfg.APIs.GenAI.BaseURL, cfg.APIs.GenAI.APIKey, stConfig.MaxRetries)
	}

	handler := st.NewHandler(stConfig, reranker, log)
	output, err := handler.Execute(ctx, &st.Input{
		RunID:        collected.RunID,
		BusinessType: collected.BusinessType,
		Country:      collected.Country,
		Niche:        collected.Niche,
		Summary:      collected.Summary,
		Signals:      collected.Signals,
		Profile:      profile,
		TopK:         topK,
	})
	if err != nil {
		fatal("score stage failed: %v", err)
	}

	writeStage(outDir, filteredFile, output)
	fmt.Printf("Shortlisted %d of %d signals (%d excluded) -> %s\n",
		len(output.Shortlist), output.TotalScored, output.Excluded, filepath.Join(outDir, filteredFile))
}

func runPlan(ctx context.Context, cfg *config.Config, log logger.Logger, profile *models.BusinessProfile, outDir string) {
	var scored st.Output
	readStage(outDir, filteredFile, &scored)

	scheduleRef, err := schedule.Load(cfg.References.SchedulePath)
	if err != nil {
		fatal("schedule reference load failed: %v", err)
	}

	handler := bcp.NewHandler(bcp.LoadConfig(), scheduleRef, log)
	output, err := handler.Execute(ctx, &bcp.Input{
		RunID:        scored.RunID,
		BusinessType: scored.BusinessType,
		Country:      scored.Country,
		Niche:        scored.Niche,
		Shortlist:    scored.Shortlist,
		Profile:      profile,
	})
	if err != nil {
		fatal("plan stage failed: %v", err)
	}

	writeStage(outDir, planFile, output)
	fmt.Printf("Built %d concepts across %d days -> %s\n",
		len(output.Concepts), len(output.Calendar), filepath.Join(outDir, planFile))
}

func buildConnectors(cfg *config.Config, log logger.Logger) []connectors.Connector {
	minInterval := config.GetDuration(cfg.Sources.MinRequestInterval)

	var conns []connectors.Connector
	if cfg.Sources.TikTok.Enabled {
		conns = append(conns, connectors.NewTikTok(connectors.TikTokOptions{
			BaseURL:     cfg.Sources.TikTok.BaseURL,
			APIURL:      cfg.Sources.TikTok.APIURL,
			UserAgent:   cfg.Sources.TikTok.UserAgent,
			Timeout:     config.GetDuration(cfg.Sources.TikTok.Timeout),
			MinInterval: minInterval,
		}, log))
	}
	if cfg.Sources.GoogleTrends.Enabled {
		conns = append(conns, connectors.NewGoogleTrends(connectors.GoogleTrendsOptions{
			RSSURL:      cfg.Sources.GoogleTrends.RSSURL,
			RelatedURL:  cfg.Sources.GoogleTrends.RelatedURL,
			Timeout:     config.GetDuration(cfg.Sources.GoogleTrends.Timeout),
			MinInterval: minInterval,
		}, log))
	}
	if cfg.Sources.Reddit.Enabled {
		conns = append(conns, connectors.NewReddit(connectors.RedditOptions{
			BaseURL:     cfg.Sources.Reddit.BaseURL,
			UserAgent:   cfg.Sources.Reddit.UserAgent,
			Timeout:     config.GetDuration(cfg.Sources.Reddit.Timeout),
			MinInterval: minInterval,
		}, log))
	}
	return conns
}

func loadProfile(path string) (*models.BusinessProfile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p models.BusinessProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func readStage(outDir, name string, v interface{}) {
	data, err := os.ReadFile(filepath.Join(outDir, name))
	if err != nil {
		fatal("read %s (run the previous stage first): %v", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		fatal("parse %s: %v", name, err)
	}
}

func writeStage(outDir, name string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(outDir, name), data, 0o644); err != nil {
		fatal("write %s: %v", name, err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the digest-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/digest-engine/internal/secrets"
	"github.com/pdiddy/digest-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the digest-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "digest-engine",
	Short: "Personalized arXiv paper digests ranked by relevance and prestige",
	Long: `digest-engine builds a daily digest of new arXiv papers, ranked against
your reading corpus. Candidate abstracts are embedded and compared with
recently-read papers; the top candidates are then boosted by author prestige
(Semantic Scholar h-index and citations) and institution prestige (a curated
score table).

Each stage is also exposed as a subcommand for inspection: author and
institution score lookups can be run standalone.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./digest-engine.yaml or ~/.config/digest-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("digest-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "digest-engine"))
		}
	}

	viper.SetEnvPrefix("DIGEST_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the pipeline configuration from the config file,
// environment, and loaded secrets.
func loadConfig() types.DigestConfig {
	viper.SetDefault("feed.categories", []string{"cs.LG", "cs.CL"})
	viper.SetDefault("feed.max_results", 100)
	viper.SetDefault("feed.timeout", "30s")
	viper.SetDefault("corpus.max_items", 500)
	viper.SetDefault("corpus.timeout", "30s")
	viper.SetDefault("embedding.base_url", "http://localhost:8080")
	viper.SetDefault("embedding.timeout", "60s")
	viper.SetDefault("author.cache_path", "author_scores.db")
	viper.SetDefault("author.timeout", "10s")
	viper.SetDefault("author.default_score", 50.0)
	viper.SetDefault("author.prestigious_threshold", 80.0)
	viper.SetDefault("author.staleness_window", "720h")
	viper.SetDefault("author.min_request_interval", "100ms")
	viper.SetDefault("author.max_retries", 3)
	viper.SetDefault("institution.scores_file", "institution_scores.yaml")
	viper.SetDefault("institution.default_score", 50.0)
	viper.SetDefault("institution.prestigious_threshold", 90.0)
	viper.SetDefault("rerank.use_prestige", true)
	viper.SetDefault("rerank.max_papers", 10)
	viper.SetDefault("rerank.prestige_weight", 0.3)

	userAgent := "digest-engine/" + version

	return types.DigestConfig{
		Feed: types.FeedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("feed.timeout"),
				UserAgent: userAgent,
			},
			Categories: viper.GetStringSlice("feed.categories"),
			MaxResults: viper.GetInt("feed.max_results"),
		},
		Corpus: types.CorpusConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("corpus.timeout"),
				UserAgent: userAgent,
			},
			ZoteroUserID: viper.GetString("corpus.zotero_user_id"),
			ZoteroAPIKey: secretDefault("zotero-api-key", viper.GetString("corpus.zotero_api_key")),
			File:         viper.GetString("corpus.file"),
			MaxItems:     viper.GetInt("corpus.max_items"),
		},
		Embedding: types.EmbeddingConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("embedding.timeout"),
				UserAgent: userAgent,
			},
			BaseURL: viper.GetString("embedding.base_url"),
		},
		Author: types.AuthorConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("author.timeout"),
				UserAgent: userAgent,
			},
			CachePath:            viper.GetString("author.cache_path"),
			APIKey:               secretDefault("semantic-scholar-api-key", viper.GetString("author.api_key")),
			DefaultScore:         viper.GetFloat64("author.default_score"),
			PrestigiousThreshold: viper.GetFloat64("author.prestigious_threshold"),
			StalenessWindow:      viper.GetDuration("author.staleness_window"),
			MinRequestInterval:   viper.GetDuration("author.min_request_interval"),
			MaxRetries:           viper.GetInt("author.max_retries"),
		},
		Institution: types.InstitutionConfig{
			ScoresFile:           viper.GetString("institution.scores_file"),
			CacheFile:            viper.GetString("institution.cache_file"),
			DefaultScore:         viper.GetFloat64("institution.default_score"),
			PrestigiousThreshold: viper.GetFloat64("institution.prestigious_threshold"),
		},
		Rerank: types.RerankConfig{
			UsePrestige:    viper.GetBool("rerank.use_prestige"),
			MaxPapers:      viper.GetInt("rerank.max_papers"),
			PrestigeWeight: viper.GetFloat64("rerank.prestige_weight"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

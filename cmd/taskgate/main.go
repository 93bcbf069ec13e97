package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zen-systems/taskgate/pkg/adapter"
	"github.com/zen-systems/taskgate/pkg/classify"
	"github.com/zen-systems/taskgate/pkg/config"
	"github.com/zen-systems/taskgate/pkg/dispatch"
	"github.com/zen-systems/taskgate/pkg/handler"
	"github.com/zen-systems/taskgate/pkg/handler/chat"
	"github.com/zen-systems/taskgate/pkg/payload"
	"github.com/zen-systems/taskgate/pkg/selector"
	"github.com/zen-systems/taskgate/pkg/store"
	"github.com/zen-systems/taskgate/pkg/task"
)

var (
	userFlag  string
	debugFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taskgate",
		Short: "AI task router with capability-scored provider selection",
		Long: `Taskgate classifies natural-language requests into task types,
	scores the configured AI providers for each task, and dispatches to the
	matching handler while keeping an auditable decision trail.`,
	}

	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "local", "user ID for history and credentials")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(doCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(tasksCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(decisionsCmd())
	rootCmd.AddCommand(keysCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func doCmd() *cobra.Command {
	var providerFlag string
	var filePath string
	var fileName string
	var urgent bool
	var complexity, domain, creativity string

	cmd := &cobra.Command{
		Use:   "do [request]",
		Short: "Dispatch a natural-language request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry, err := cfg.Registry.BuildRegistry()
			if err != nil {
				return err
			}

			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			// Per-user stored keys extend (and override) the shared config.
			keys := make(map[task.Provider]string)
			for provider, key := range cfg.APIKeys {
				if key != "" {
					keys[provider] = key
				}
			}
			if stored, err := db.ProviderKeys(cmd.Context(), userFlag); err == nil {
				for provider, key := range stored {
					keys[provider] = key
				}
			}

			adapters, err := createAdapters(keys)
			if err != nil {
				return fmt.Errorf("failed to create adapters: %w", err)
			}
			if len(adapters) == 0 {
				return fmt.Errorf("no provider API keys configured; add keys to %s or run 'taskgate keys set'", filepath.Join(cfg.ConfigDir, "config.yaml"))
			}

			handlers := handler.NewRegistry()
			chat.RegisterAll(handlers, adapters)

			sel := selector.New(registry,
				selector.WithAdjustmentRules(cfg.Registry.Adjustments),
				selector.WithDebug(debugFlag),
			)

			available := make([]task.Provider, 0, len(adapters))
			for _, provider := range task.Providers() {
				if _, ok := adapters[provider]; ok {
					available = append(available, provider)
				}
			}

			opts := []dispatch.Option{
				dispatch.WithHistory(db),
				dispatch.WithDecisionSink(db),
				dispatch.WithDebug(debugFlag),
			}
			if a, model, ok := modelAdapter(adapters); ok {
				opts = append(opts, dispatch.WithDescriber(classify.NewModelDescriber(a, model)))
			}

			dispatcher := dispatch.New(
				buildClassifier(adapters),
				payload.NewBuilder(nil, nil),
				sel,
				handlers,
				dispatch.StaticCredentials(available),
				opts...,
			)

			req := dispatch.Request{
				UserID:  userFlag,
				RawText: args[0],
			}
			if providerFlag != "" {
				provider, err := task.ParseProvider(providerFlag)
				if err != nil {
					return err
				}
				req.ProviderOverride = provider
			}
			if filePath != "" {
				name := fileName
				if name == "" {
					name = filepath.Base(filePath)
				}
				req.File = &payload.File{Path: filePath, Name: name}
			}
			if urgent || complexity != "" || domain != "" || creativity != "" {
				req.Context = &selector.Context{
					Urgent:     urgent,
					Complexity: complexity,
					Domain:     domain,
					Creativity: creativity,
				}
			}

			envelope, err := dispatcher.ProcessRequest(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "task: %s  provider: %s\n", envelope.Message, envelope.Selection.Selected)
			fmt.Println(envelope.Response)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFlag, "provider", "", "override the selected provider")
	cmd.Flags().StringVar(&filePath, "file", "", "path of an uploaded file")
	cmd.Flags().StringVar(&fileName, "file-name", "", "original name of the uploaded file")
	cmd.Flags().BoolVar(&urgent, "urgent", false, "mark the request urgent")
	cmd.Flags().StringVar(&complexity, "complexity", "", "complexity hint (e.g. high)")
	cmd.Flags().StringVar(&domain, "domain", "", "domain hint (e.g. finance)")
	cmd.Flags().StringVar(&creativity, "creativity", "", "creativity hint (e.g. high)")
	return cmd
}

func selectCmd() *cobra.Command {
	var urgent bool
	var complexity, domain, creativity string

	cmd := &cobra.Command{
		Use:   "select [task-type]",
		Short: "Dry-run provider selection for a task type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			registry, err := cfg.Registry.BuildRegistry()
			if err != nil {
				return err
			}

			taskType, err := task.ParseType(args[0])
			if err != nil {
				return err
			}

			var selCtx *selector.Context
			if urgent || complexity != "" || domain != "" || creativity != "" {
				selCtx = &selector.Context{Urgent: urgent, Complexity: complexity, Domain: domain, Creativity: creativity}
			}

			sel := selector.New(registry, selector.WithAdjustmentRules(cfg.Registry.Adjustments))
			result, err := sel.Select(taskType, cfg.AvailableProviders(), selCtx)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&urgent, "urgent", false, "mark the request urgent")
	cmd.Flags().StringVar(&complexity, "complexity", "", "complexity hint")
	cmd.Flags().StringVar(&domain, "domain", "", "domain hint")
	cmd.Flags().StringVar(&creativity, "creativity", "", "creativity hint")
	return cmd
}

func tasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List task types with default providers and capability scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			registry, err := cfg.Registry.BuildRegistry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprint(w, "TASK\tDEFAULT")
			for _, provider := range task.Providers() {
				fmt.Fprintf(w, "\t%s", provider)
			}
			fmt.Fprintln(w)

			for _, taskType := range task.Types() {
				defaultProvider, err := registry.DefaultProviderFor(taskType)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s", taskType, defaultProvider)
				for _, provider := range task.Providers() {
					score, err := registry.CapabilityOf(provider, taskType)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "\t%d", score)
				}
				fmt.Fprintln(w)
			}
			return w.Flush()
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed tasks for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.CompletedTaskHistory(cmd.Context(), userFlag)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTASK\tDESCRIPTION")
			for _, record := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\n", record.CreatedAt.Format("2006-01-02 15:04"), record.TaskType, record.Description)
			}
			return w.Flush()
		},
	}
}

func decisionsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "List recent routing decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := db.RecentDecisions(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tTASK\tPROVIDER\tSCORE\tMS\tREASONING")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\n",
					entry.Timestamp.Format("2006-01-02 15:04"), entry.TaskType, entry.ModelUsed,
					entry.DecisionScore, entry.ExecutionTimeMs, entry.Reasoning)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to list")
	return cmd
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage per-user provider credentials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [provider] [api-key]",
		Short: "Store a provider API key for the current user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := task.ParseProvider(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.SetProviderKey(cmd.Context(), userFlag, provider, args[1]); err != nil {
				return err
			}
			fmt.Printf("stored %s key for %s\n", provider, userFlag)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List providers the current user has keys for",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			providers, err := db.AvailableProviders(cmd.Context(), userFlag)
			if err != nil {
				return err
			}
			for _, provider := range providers {
				fmt.Println(provider)
			}
			return nil
		},
	})

	return cmd
}

// createAdapters builds an adapter per configured provider key.
func createAdapters(keys map[task.Provider]string) (map[task.Provider]adapter.Adapter, error) {
	adapters := make(map[task.Provider]adapter.Adapter)

	type factory func(string) (adapter.Adapter, error)
	factories := map[task.Provider]factory{
		task.Anthropic: func(key string) (adapter.Adapter, error) { return adapter.NewAnthropicAdapter(key) },
		task.OpenAI:    func(key string) (adapter.Adapter, error) { return adapter.NewOpenAIAdapter(key) },
		task.Gemini:    func(key string) (adapter.Adapter, error) { return adapter.NewGeminiAdapter(key) },
		task.Grok:      func(key string) (adapter.Adapter, error) { return adapter.NewGrokAdapter(key) },
		task.Mistral:   func(key string) (adapter.Adapter, error) { return adapter.NewMistralAdapter(key) },
		task.HuggingFace: func(key string) (adapter.Adapter, error) {
			return adapter.NewHuggingFaceAdapter(key)
		},
		task.Cohere: func(key string) (adapter.Adapter, error) {
			return adapter.NewCompatAdapter("cohere", key, "https://api.cohere.ai/compatibility/v1", []string{"command-a-03-2025"})
		},
	}

	for provider, create := range factories {
		key := keys[provider]
		if key == "" {
			continue
		}
		a, err := create(key)
		if err != nil {
			return nil, err
		}
		adapters[provider] = a
	}

	return adapters, nil
}

// modelAdapter picks an adapter suited for classification and description
// calls, preferring the strongest general-purpose backends.
func modelAdapter(adapters map[task.Provider]adapter.Adapter) (adapter.Adapter, string, bool) {
	for _, provider := range []task.Provider{task.Anthropic, task.OpenAI, task.Gemini} {
		if a, ok := adapters[provider]; ok {
			models := a.Models()
			if len(models) == 0 {
				continue
			}
			return a, models[0], true
		}
	}
	return nil, "", false
}

// buildClassifier chains the pattern classifier with a model tie-breaker
// when a capable adapter is configured.
func buildClassifier(adapters map[task.Provider]adapter.Adapter) classify.Classifier {
	patterns := classify.NewPatternClassifier()
	if a, model, ok := modelAdapter(adapters); ok {
		return classify.Chain{patterns, classify.NewModelClassifier(a, model)}
	}
	return patterns
}

func openStore(cfg *config.Config) (*store.Store, error) {
	return store.New(store.Config{Path: filepath.Join(cfg.ConfigDir, "taskgate.db")})
}

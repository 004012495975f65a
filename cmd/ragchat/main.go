// Command ragchat is an interactive course assistant. It answers questions
// about the bundled course catalogue using a tool-augmented model.
//
// Configure it through the environment, for example:
//
//	ANTHROPIC_API_KEY=... ragchat
//	RAGCHAT_PROVIDER=ollama OLLAMA_MODEL=llama3.1 ragchat
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/a3eyherabide/starting-ragchatbot-codebase/config"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/knowledge"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/logging"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model/anthropic"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model/langchain"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/model/openai"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/orchestrator"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/session"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool"
	"github.com/a3eyherabide/starting-ragchatbot-codebase/tool/builtin"
	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/tmc/langchaingo/llms/ollama"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, in *os.File, out io.Writer) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
		Component: "ragchat",
	})

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	logger = logger.WithContext("provider", client.Info().Provider)

	store := knowledge.NewStore()
	if err := seedCourses(store); err != nil {
		return err
	}

	search := builtin.NewSearchTool(store)
	registry := tool.NewRegistry(func(o *tool.RegistryOptions) { o.Logger = logger.WithComponent("tools") })
	registry.MustRegister(search, builtin.NewOutlineTool(store), builtin.NewCalculatorTool())

	gen := orchestrator.New(client, func(o *orchestrator.Options) {
		o.Params = model.Params{Model: cfg.Model(), Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
		o.MaxRounds = cfg.MaxRounds
		o.Logger = logger.WithComponent("orchestrator")
	})

	sessions := session.NewInMemoryStore(func(o *session.Options) { o.MaxHistory = cfg.MaxHistory })
	c := &chat{
		gen:       gen,
		registry:  registry,
		search:    search,
		sessions:  sessions,
		sessionID: sessions.Create(),
		logger:    logger,
	}

	interactive := term.IsTerminal(int(in.Fd()))
	if interactive {
		fmt.Fprintf(out, "Course assistant (%s). Type 'exit' to quit, '/clear' to reset the conversation.\n", client.Info().Provider)
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		switch query {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "/clear":
			sessions.Clear(c.sessionID)
			continue
		}

		answer, sources, _ := c.ask(ctx, query)
		fmt.Fprintln(out, answer)
		for _, src := range sources {
			if src.Link != "" {
				fmt.Fprintf(out, "  source: %s (%s)\n", src.Text, src.Link)
			} else {
				fmt.Fprintf(out, "  source: %s\n", src.Text)
			}
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

// chat answers the queries of one interactive session.
type chat struct {
	gen       *orchestrator.Generator
	registry  *tool.Registry
	search    *builtin.SearchTool
	sessions  *session.InMemoryStore
	sessionID string
	logger    *logging.StructuredLogger
	queries   int
}

// ask answers query with the session history and returns the sources the
// search tool consulted. Failed queries are not recorded in the history.
func (c *chat) ask(ctx context.Context, query string) (string, []builtin.Source, error) {
	c.queries++
	queryLogger := c.logger.WithComponent("orchestrator").WithQuery(fmt.Sprintf("%s-%d", c.sessionID, c.queries))

	c.search.ResetSources()
	answer, err := c.gen.GenerateResponse(ctx, query,
		orchestrator.WithHistory(c.sessions.History(c.sessionID)),
		orchestrator.WithRegistry(c.registry),
		orchestrator.WithLogger(queryLogger),
	)
	if err != nil {
		queryLogger.Error("ragchat.query.failed", "error", err)
		return answer, nil, err
	}
	c.sessions.AddExchange(c.sessionID, query, answer)
	return answer, c.search.LastSources(), nil
}

func newClient(cfg *config.Config) (model.Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return openai.New(func(o *openai.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			o.Model = cfg.OpenAIModel
			o.MaxTokens = cfg.MaxTokens
		}), nil
	case config.ProviderOllama:
		llm, err := ollama.New(ollama.WithModel(cfg.OllamaModel), ollama.WithServerURL(cfg.OllamaURL))
		if err != nil {
			return nil, fmt.Errorf("ollama: %w", err)
		}
		return langchain.New(llm, func(o *langchain.Options) {
			o.Name = cfg.OllamaModel
			o.MaxTokens = int(cfg.MaxTokens)
		}), nil
	default:
		return anthropic.New(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			o.Model = anthropicsdk.Model(cfg.AnthropicModel)
			o.MaxTokens = cfg.MaxTokens
		}), nil
	}
}

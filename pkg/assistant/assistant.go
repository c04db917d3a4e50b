package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/germanamz/pdfask/pkg/chats/chat"
	"github.com/germanamz/pdfask/pkg/chats/message"
	"github.com/germanamz/pdfask/pkg/chats/role"
	"github.com/germanamz/pdfask/pkg/config"
	"github.com/germanamz/pdfask/pkg/i18n"
	"github.com/germanamz/pdfask/pkg/modeladapter"
)

// Settings supplies the configuration snapshot for each request.
// *config.Store satisfies it.
type Settings interface {
	Get() config.AppConfig
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the request logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Assistant) { a.log = log }
}

// WithHTTPClient sets the client handed to provider factories.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Assistant) { a.client = c }
}

// WithRegistry replaces the default provider registry.
func WithRegistry(r *Registry) Option {
	return func(a *Assistant) { a.registry = r }
}

// WithHistoryPolicy replaces DefaultHistoryPolicy.
func WithHistoryPolicy(p HistoryPolicy) Option {
	return func(a *Assistant) { a.policy = p }
}

// WithRateLimit wraps every provider in a RateLimitedCompleter.
func WithRateLimit(opts modeladapter.RateLimitOpts) Option {
	return func(a *Assistant) { a.rateLimit = &opts }
}

// Assistant turns conversation turns into provider requests.
type Assistant struct {
	settings  Settings
	registry  *Registry
	client    *http.Client
	policy    HistoryPolicy
	rateLimit *modeladapter.RateLimitOpts
	log       *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	limited map[config.ProviderConfig]*modeladapter.RateLimitedCompleter
}

// New creates an Assistant reading its configuration from settings.
func New(settings Settings, opts ...Option) *Assistant {
	a := &Assistant{
		settings: settings,
		registry: NewRegistry(),
		policy:   DefaultHistoryPolicy,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		limited:  map[config.ProviderConfig]*modeladapter.RateLimitedCompleter{},
	}
	for _, o := range opts {
		o(a)
	}

	return a
}

// Labels returns the string table for the configured language.
func (a *Assistant) Labels() i18n.Labels {
	return i18n.For(i18n.Resolve(a.settings.Get().Language))
}

// Respond sends history and turn to the configured provider and returns the
// reply text. history holds the turns before turn, oldest first.
func (a *Assistant) Respond(ctx context.Context, history []message.Message, turn message.Message) (string, error) {
	cfg := a.settings.Get()

	completer, err := a.completer(cfg.AIProvider)
	if err != nil {
		a.log.Warn("request not sent", "provider", cfg.AIProvider.Name, "hasAPIKey", cfg.AIProvider.HasAPIKey(), "error", err)
		return "", err
	}

	labels := i18n.For(i18n.Resolve(cfg.Language))

	prompt := turn.Content
	if turn.Selection != nil {
		prompt = labels.SelectionClause(turn.Selection.Text, turn.Content)
	}

	kept := a.policy.Apply(history)

	now := a.now()
	c := chat.New(message.New(role.System, cfg.SystemPrompt, now))
	c.Append(kept...)
	c.Append(message.New(role.User, prompt, now))

	var est modeladapter.TokenEstimator
	a.log.Debug("sending request",
		"provider", cfg.AIProvider.Name,
		"model", cfg.AIProvider.Model,
		"hasAPIKey", true,
		"history", len(kept),
		"droppedHistory", len(history)-len(kept),
		"estimatedTokens", est.EstimateChat(c),
	)

	start := a.now()
	reply, err := completer.Complete(ctx, c)
	if err != nil {
		a.log.Warn("request failed", "provider", cfg.AIProvider.Name, "error", err, "elapsed", a.now().Sub(start))
		return "", err
	}

	a.log.Debug("reply received", "provider", cfg.AIProvider.Name, "chars", len(reply.Content), "elapsed", a.now().Sub(start))
	a.logUsage(cfg.AIProvider.Name, completer)

	return reply.Content, nil
}

// logUsage reports the token counts of the last reply and the running total
// for the provider. A reply that used the whole completion budget was most
// likely cut off.
func (a *Assistant) logUsage(provider string, completer modeladapter.Completer) {
	ur, ok := completer.(modeladapter.UsageReporter)
	if !ok {
		return
	}

	tr := ur.UsageTracker()
	last, ok := tr.Last()
	if !ok {
		return
	}

	a.log.Debug("token usage",
		"provider", provider,
		"promptTokens", last.PromptTokens,
		"completionTokens", last.CompletionTokens,
		"totalTokens", tr.Total().Total(),
		"calls", tr.Count(),
	)

	if limit := ur.ModelMaxTokens(); limit > 0 && last.CompletionTokens >= limit {
		a.log.Warn("reply reached the token limit", "provider", provider, "maxTokens", limit)
	}
}

// Describe maps an error from Respond or TestConnection to the localized text
// shown as the assistant's turn.
func (a *Assistant) Describe(err error) string {
	return Describe(a.Labels(), err)
}

// Describe maps err to a user-facing message in labels' language.
func Describe(labels i18n.Labels, err error) string {
	var (
		ce  *ConfigError
		rle *modeladapter.RateLimitError
		se  *modeladapter.StatusError
		fe  *modeladapter.FormatError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &ce):
		if ce.Reason == UnsupportedProvider {
			return labels.UnsupportedProvider(ce.Provider)
		}
		return labels.ErrMissingAPIKey
	case errors.As(err, &rle):
		return labels.ErrRateLimited
	case errors.As(err, &se):
		return labels.RequestFailed(se.StatusCode, se.Detail)
	case errors.As(err, &fe):
		return labels.ErrBadFormat
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return labels.Network(ue.Err)
	}

	return labels.ErrGeneric
}

// TestConnection sends a minimal request with p. Any non-empty reply counts
// as success.
func (a *Assistant) TestConnection(ctx context.Context, p config.ProviderConfig) error {
	completer, err := a.registry.Build(p, a.client)
	if err != nil {
		return err
	}

	labels := a.Labels()
	now := a.now()
	c := chat.New(
		message.New(role.System, labels.TestSystemPrompt, now),
		message.New(role.User, labels.TestPrompt, now),
	)

	reply, err := completer.Complete(ctx, c)
	if err != nil {
		a.log.Info("connection test failed", "provider", p.Name, "error", err)
		return err
	}

	if strings.TrimSpace(reply.Content) == "" {
		return &modeladapter.FormatError{Reason: "empty reply"}
	}

	a.log.Info("connection test passed", "provider", p.Name, "model", p.Model)

	return nil
}

// Models returns the catalogue for the named provider.
func (a *Assistant) Models(provider string) []string {
	return a.registry.Models(provider)
}

// Names returns the registered provider names, sorted.
func (a *Assistant) Names() []string {
	return a.registry.Names()
}

// completer builds the provider for p. With rate limiting enabled one
// limited completer is kept per distinct provider configuration.
func (a *Assistant) completer(p config.ProviderConfig) (modeladapter.Completer, error) {
	if a.rateLimit == nil {
		return a.registry.Build(p, a.client)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.limited[p]; ok {
		return c, nil
	}

	c, err := a.registry.Build(p, a.client)
	if err != nil {
		return nil, err
	}

	rl := modeladapter.NewRateLimitedCompleter(c, *a.rateLimit)
	a.limited[p] = rl

	return rl, nil
}

package slack

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/cisboard/pkg/domain/model"
	"github.com/slack-go/slack"
)

// DefaultCacheTTL is the default TTL for the channel name cache
const DefaultCacheTTL = 10 * time.Minute

type cacheEntry struct {
	name      string
	expiresAt time.Time
}

// Client posts platform notifications to a single Slack channel
type Client struct {
	api       *slack.Client
	channelID string
	cacheTTL  time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type config struct {
	cacheTTL time.Duration
	apiURL   string
}

// Option is a functional option for client configuration
type Option func(*config)

// WithCacheTTL sets the TTL for the channel name cache
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.cacheTTL = ttl
	}
}

// WithAPIURL overrides the Slack Web API endpoint. The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(c *config) {
		c.apiURL = url
	}
}

// New creates a Slack notifier with the provided bot token and destination channel
func New(token, channelID string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	cfg := config{cacheTTL: DefaultCacheTTL}
	for _, opt := range opts {
		opt(&cfg)
	}

	var apiOpts []slack.Option
	if cfg.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Client{
		api:       slack.New(token, apiOpts...),
		channelID: channelID,
		cacheTTL:  cfg.cacheTTL,
		cache:     make(map[string]cacheEntry),
	}, nil
}

// Notify posts n as a Block Kit message
func (c *Client) Notify(ctx context.Context, n *model.Notification) error {
	blocks := buildBlocks(n)
	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText(n), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("channel_id", c.channelID),
			goerr.V("title", n.Title))
	}
	return nil
}

// ChannelName resolves the name of the destination channel. The result is cached.
func (c *Client) ChannelName(ctx context.Context) (string, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.cache[c.channelID]
	c.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.name, nil
	}

	info, err := c.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: c.channelID,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to get Slack channel info", goerr.V("channel_id", c.channelID))
	}

	c.mu.Lock()
	c.cache[c.channelID] = cacheEntry{name: info.Name, expiresAt: now.Add(c.cacheTTL)}
	c.mu.Unlock()

	return info.Name, nil
}

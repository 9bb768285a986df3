// Package pubsub wraps the Pub/Sub client the outbox relay publishes through.
// Each outbox aggregate has its own topic.
package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"go.uber.org/multierr"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/angelmondragon/lockerbox-backend/pkg/config"
	"github.com/angelmondragon/lockerbox-backend/pkg/enums"
	"github.com/angelmondragon/lockerbox-backend/pkg/logger"
)

var errProjectIDRequired = errors.New("gcp project id is required")

type Client struct {
	client    *pubsub.Client
	projectID string
	cfg       config.PubSubConfig

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewClient creates a Pub/Sub v2 client and checks every aggregate topic exists.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(gcp.ProjectID) == "" {
		return nil, errProjectIDRequired
	}

	psClient, err := pubsub.NewClient(ctx, gcp.ProjectID, clientOptions(gcp)...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{
		client:     psClient,
		projectID:  gcp.ProjectID,
		cfg:        cfg,
		publishers: map[string]*pubsub.Publisher{},
	}
	if err := c.Ping(ctx); err != nil {
		_ = psClient.Close()
		return nil, err
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"orders_topic":   cfg.OrdersTopic,
		"machines_topic": cfg.MachinesTopic,
	}), "pubsub client initialized")
	return c, nil
}

// clientOptions prefers inline credentials, then a credentials file, then ADC.
func clientOptions(gcp config.GCPConfig) []option.ClientOption {
	switch {
	case strings.TrimSpace(gcp.CredentialsJSON) != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(gcp.CredentialsJSON))}
	case strings.TrimSpace(gcp.ApplicationCredentials) != "":
		return []option.ClientOption{option.WithCredentialsFile(gcp.ApplicationCredentials)}
	default:
		return nil
	}
}

// TopicFor maps an outbox aggregate to its configured topic id.
func TopicFor(cfg config.PubSubConfig, aggregate enums.OutboxAggregateType) (string, bool) {
	var topic string
	switch aggregate {
	case enums.AggregateOrder:
		topic = cfg.OrdersTopic
	case enums.AggregateVendingMachine:
		topic = cfg.MachinesTopic
	}
	topic = strings.TrimSpace(topic)
	return topic, topic != ""
}

// PublisherFor returns the shared publisher for the aggregate's topic, or nil
// when the aggregate has no topic configured.
func (c *Client) PublisherFor(aggregate enums.OutboxAggregateType) *pubsub.Publisher {
	if c == nil || c.client == nil {
		return nil
	}
	topic, ok := TopicFor(c.cfg, aggregate)
	if !ok {
		return nil
	}
	fullName := TopicResourceName(c.projectID, topic)
	if fullName == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.publishers[fullName]; ok {
		return p
	}
	p := c.client.Publisher(fullName)
	c.publishers[fullName] = p
	return p
}

// Ping checks that every configured aggregate topic exists.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("pubsub client not initialized")
	}
	var errs error
	for _, aggregate := range []enums.OutboxAggregateType{enums.AggregateOrder, enums.AggregateVendingMachine} {
		topic, ok := TopicFor(c.cfg, aggregate)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("no topic configured for %s events", aggregate))
			continue
		}
		errs = multierr.Append(errs, c.topicExists(ctx, topic))
	}
	return errs
}

func (c *Client) topicExists(ctx context.Context, topic string) error {
	_, err := c.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: TopicResourceName(c.projectID, topic)})
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %q does not exist", topic)
	default:
		return fmt.Errorf("checking topic %q: %w", topic, err)
	}
}

// Close flushes the cached publishers and releases the client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.mu.Lock()
	for _, p := range c.publishers {
		p.Stop()
	}
	c.publishers = map[string]*pubsub.Publisher{}
	c.mu.Unlock()
	return c.client.Close()
}

// TopicResourceName expands a topic id into projects/<p>/topics/<id>.
func TopicResourceName(projectID, name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return ""
	}
	if strings.HasPrefix(n, "projects/") && strings.Contains(n, "/topics/") {
		return n
	}
	p := strings.TrimSpace(projectID)
	if p == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/topics/%s", p, n)
}

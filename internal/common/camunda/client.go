// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"financial-health-workers/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// DefaultProcessID is the BPMN process that runs a financial health check.
const DefaultProcessID = "financial-health-check"

// Client wraps the Zeebe gateway connection used by the worker manager and
// the HTTP API.
type Client struct {
	client zbc.Client
	config *ClientConfig

	// createInstance is swapped out in tests.
	createInstance func(ctx context.Context, processID string, vars map[string]interface{}) (*pb.CreateProcessInstanceResponse, error)
}

type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RequestTimeout         time.Duration
	ProcessID              string
	RetryConfig            *RetryConfig
}

// RetryConfig controls backoff for transient gateway failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// HealthCheckStart identifies a started health check process instance.
type HealthCheckStart struct {
	ProcessInstanceKey   int64  `json:"processInstanceKey"`
	ProcessDefinitionKey int64  `json:"processDefinitionKey"`
	BPMNProcessID        string `json:"bpmnProcessId"`
	Version              int32  `json:"version"`
}

func NewClient(address string) (*Client, error) {
	return NewClientWithConfig(&ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         30 * time.Second,
	})
}

// NewClientWithConfig connects to the gateway and verifies the topology
// before returning.
func NewClientWithConfig(cfg *ClientConfig) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.GatewayAddress,
		UsePlaintextConnection: cfg.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := newClient(zeebeClient, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.ConnectionTimeout)
	defer cancel()
	if _, err := zeebeClient.NewTopologyCommand().Send(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.GatewayAddress, err)
	}
	return c, nil
}

func newClient(zc zbc.Client, cfg *ClientConfig) *Client {
	if cfg.RetryConfig == nil {
		cfg.RetryConfig = DefaultRetryConfig
	}
	if cfg.ProcessID == "" {
		cfg.ProcessID = DefaultProcessID
	}
	if cfg.ConnectionTimeout <= 0 {
		cfg.ConnectionTimeout = 10 * time.Second
	}
	c := &Client{client: zc, config: cfg}
	c.createInstance = c.sendCreateInstance
	return c
}

func (c *Client) GetClient() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// StartHealthCheck creates an instance of the latest deployed health check
// process with vars as its initial variables.
func (c *Client) StartHealthCheck(ctx context.Context, vars map[string]interface{}) (*HealthCheckStart, error) {
	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	var resp *pb.CreateProcessInstanceResponse
	err := c.withRetry(ctx, "create-instance", func(ctx context.Context) error {
		var err error
		resp, err = c.createInstance(ctx, c.config.ProcessID, vars)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &HealthCheckStart{
		ProcessInstanceKey:   resp.GetProcessInstanceKey(),
		ProcessDefinitionKey: resp.GetProcessDefinitionKey(),
		BPMNProcessID:        resp.GetBpmnProcessId(),
		Version:              resp.GetVersion(),
	}, nil
}

func (c *Client) sendCreateInstance(ctx context.Context, processID string, vars map[string]interface{}) (*pb.CreateProcessInstanceResponse, error) {
	cmd, err := c.client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(vars)
	if err != nil {
		return nil, errors.NewInvalidHealthInputError(fmt.Sprintf("encode process variables: %v", err))
	}
	return cmd.Send(ctx)
}

// HealthCheck asks the gateway for its topology.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// withRetry runs fn with exponential backoff while it fails with a
// transient gateway error. The final error is a StandardError.
func (c *Client) withRetry(ctx context.Context, op string, fn func(context.Context) error) error {
	rc := c.config.RetryConfig
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if _, ok := err.(*errors.StandardError); ok {
			return err
		}
		if !isRetryableZeebeError(err) || attempt >= rc.MaxRetries {
			return mapZeebeError(err, op, attempt+1)
		}

		delay := rc.BaseDelay * time.Duration(1<<attempt)
		if delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return errors.NewTimeoutError("zeebe", fmt.Errorf("%s cancelled after %d attempts: %w", op, attempt+1, ctx.Err()))
		}
	}
}

var retryablePhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
	"resource_exhausted",
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// mapZeebeError turns a gateway error into a StandardError so callers can
// choose a status code or retry budget.
func mapZeebeError(err error, op string, attempts int) error {
	msg := err.Error()
	lower := strings.ToLower(msg)
	wrapped := fmt.Errorf("zeebe %s failed after %d attempt(s): %s", op, attempts, msg)

	switch {
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return errors.NewTimeoutError("zeebe", wrapped)
	case strings.Contains(lower, "not found"):
		return errors.NewResourceNotFoundError("zeebe", wrapped.Error())
	case strings.Contains(lower, "already exists"):
		return errors.NewBusinessRuleError(wrapped.Error(), "Resource already exists")
	case strings.Contains(lower, "permission denied"), strings.Contains(lower, "unauthorized"):
		return errors.NewBusinessRuleError(wrapped.Error(), "Gateway rejected the credentials")
	default:
		return errors.NewExternalServiceError("zeebe", wrapped)
	}
}

// Package salesforce provides rate-limited REST access to Salesforce Contact
// records.
package salesforce

import (
	"context"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Client is the Salesforce surface the contact store needs.
type Client interface {
	Query(ctx context.Context, soql string, out any) error
	InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error)
	UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error
}

// Creds are the JWT bearer-flow credentials for a connected app.
type Creds struct {
	LoginURL   string
	Username   string
	ClientID   string
	PrivateKey string
}

// ClientOption configures the client returned by NewClient and Connect.
type ClientOption func(*restClient)

// WithRateLimit caps calls at rps per second. Non-positive values disable
// the limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *restClient) {
		if rps <= 0 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	}
}

// restClient adapts go-salesforce, which takes no context. ctx only bounds
// the limiter wait.
type restClient struct {
	api     *salesforce.Salesforce
	limiter *rate.Limiter
}

// NewClient wraps an initialised go-salesforce instance.
func NewClient(api *salesforce.Salesforce, opts ...ClientOption) Client {
	c := &restClient{api: api}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Connect runs the JWT bearer flow and returns a ready Client.
func Connect(creds Creds, opts ...ClientOption) (Client, error) {
	switch {
	case creds.ClientID == "":
		return nil, eris.New("sf: client id is required")
	case creds.PrivateKey == "":
		return nil, eris.New("sf: private key is required")
	}

	api, err := salesforce.Init(salesforce.Creds{
		Domain:         creds.LoginURL,
		Username:       creds.Username,
		ConsumerKey:    creds.ClientID,
		ConsumerRSAPem: creds.PrivateKey,
	})
	if err != nil {
		return nil, eris.Wrap(err, "sf: init")
	}
	return NewClient(api, opts...), nil
}

func (c *restClient) throttle(ctx context.Context) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "sf: rate limit")
		}
	}
	return nil
}

func (c *restClient) Query(ctx context.Context, soql string, out any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	return eris.Wrap(c.api.Query(soql, out), "sf: query")
}

func (c *restClient) InsertOne(ctx context.Context, sObjectName string, record map[string]any) (string, error) {
	if err := c.throttle(ctx); err != nil {
		return "", err
	}
	res, err := c.api.InsertOne(sObjectName, record)
	if err != nil {
		return "", eris.Wrapf(err, "sf: insert %s", sObjectName)
	}
	if !res.Success {
		return "", eris.Errorf("sf: insert %s failed: %v", sObjectName, res.Errors)
	}
	return res.Id, nil
}

func (c *restClient) UpdateOne(ctx context.Context, sObjectName string, id string, fields map[string]any) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}
	record := map[string]any{"Id": id}
	for k, v := range fields {
		if k != "Id" {
			record[k] = v
		}
	}
	return eris.Wrapf(c.api.UpdateOne(sObjectName, record), "sf: update %s %s", sObjectName, id)
}

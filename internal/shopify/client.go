package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

const accessTokenHeader = "X-Shopify-Storefront-Access-Token"

// Options configures a storefront API client.
type Options struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
	// Endpoint overrides the URL derived from StoreDomain and APIVersion.
	Endpoint   string
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Metrics    *Metrics
}

// Client is the commerce gateway: it builds storefront GraphQL operations and
// normalizes their responses. It holds no cart state.
type Client struct {
	gql      *graphql.Client
	endpoint string
	token    string
	logger   zerolog.Logger
	metrics  *Metrics
	validate *validator.Validate
}

func New(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		domainName := strings.TrimSpace(opts.StoreDomain)
		if domainName == "" {
			return nil, errors.New("shopify store domain required")
		}
		version := strings.TrimSpace(opts.APIVersion)
		if version == "" {
			version = "2024-01"
		}
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", domainName, version)
	}
	if strings.TrimSpace(opts.AccessToken) == "" {
		return nil, errors.New("storefront access token required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	c := &Client{
		gql:      graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		endpoint: endpoint,
		token:    opts.AccessToken,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		validate: newValidator(),
	}
	return c, nil
}

// Endpoint returns the GraphQL URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// run sends one GraphQL document and returns the raw data object. Transport
// failures and top-level GraphQL errors become backend errors.
func (c *Client) run(ctx context.Context, op, document string, vars map[string]any) (json.RawMessage, error) {
	req := graphql.NewRequest(document)
	for k, v := range vars {
		req.Var(k, v)
	}
	req.Header.Set(accessTokenHeader, c.token)

	start := time.Now()
	var data json.RawMessage
	err := c.gql.Run(ctx, req, &data)
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", op).Msg("storefront request failed")
		return nil, domain.NewBackendError(op, err)
	}
	c.logger.Debug().Str("operation", op).Dur("elapsed", time.Since(start)).Msg("storefront request")
	return data, nil
}

// finish records the outcome of a whole operation, including parse and user errors.
func (c *Client) finish(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		if kind := domain.KindOf(err); kind != "" {
			outcome = string(kind)
		} else {
			outcome = "error"
		}
	}
	c.metrics.observe(op, outcome, time.Since(start))
}

func (c *Client) check(op string, in any) error {
	err := c.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(op, err.Error())
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return domain.NewValidationError(op, fe.Field()+" is required")
	case "gte", "min":
		return domain.NewValidationError(op, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	default:
		return domain.NewValidationError(op, fe.Field()+" is invalid")
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

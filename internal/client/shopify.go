package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"convertforge/app/internal/config"
	"convertforge/app/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ThemeClient is the only component that talks to the platform's theme
// subsystem. Theme discovery goes through the GraphQL admin endpoint, raw
// asset reads and writes through the REST assets endpoint.
//
// The remote offers no compare-and-swap on assets: two concurrent writers
// to the same key silently race and the last write wins. That is a property
// of the platform protocol, not of this client.
type ThemeClient interface {
	FindActiveTheme(ctx context.Context, shop domain.ShopCredentials) (domain.ThemeRef, error)
	ReadAsset(ctx context.Context, shop domain.ShopCredentials, themeID int64, key string) (string, error)
	WriteAsset(ctx context.Context, shop domain.ShopCredentials, themeID int64, key, value string) error
}

type themeClient struct {
	rl         ratelimit.Limiter
	config     config.ShopifyConfig
	httpClient *resty.Client
	scheme     string
}

const activeThemeQuery = `{ themes(first: 1, roles: [MAIN]) { nodes { id name } } }`

func NewThemeClient(cfg config.ShopifyConfig) ThemeClient {
	// No transport-level retries: every caller-facing operation is already
	// safe to retry from scratch, and automatic retries would mask
	// persistent scope/quota failures.
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout) * time.Second).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &themeClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		config:     cfg,
		httpClient: client,
		scheme:     "https",
	}
}

type graphqlThemesResponse struct {
	Data struct {
		Themes struct {
			Nodes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"themes"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *themeClient) FindActiveTheme(ctx context.Context, shop domain.ShopCredentials) (domain.ThemeRef, error) {
	c.rl.Take()

	url := fmt.Sprintf("%s://%s/admin/api/%s/graphql.json", c.scheme, shop.Domain, c.config.APIVersion)

	body, err := json.Marshal(map[string]string{"query": activeThemeQuery})
	if err != nil {
		return domain.ThemeRef{}, fmt.Errorf("failed to encode theme query: %w", err)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", shop.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return domain.ThemeRef{}, fmt.Errorf("failed to query themes for %s: %w", shop.Domain, err)
	}
	if resp.IsError() {
		return domain.ThemeRef{}, &domain.RemoteError{
			StatusCode: resp.StatusCode(),
			Detail:     truncate(resp.String()),
		}
	}

	var parsed graphqlThemesResponse
	if err := json.Unmarshal([]byte(resp.String()), &parsed); err != nil {
		return domain.ThemeRef{}, fmt.Errorf("failed to decode themes response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return domain.ThemeRef{}, &domain.RemoteError{
			StatusCode: resp.StatusCode(),
			Detail:     parsed.Errors[0].Message,
		}
	}
	if len(parsed.Data.Themes.Nodes) == 0 {
		return domain.ThemeRef{}, domain.ErrNoActiveTheme
	}

	node := parsed.Data.Themes.Nodes[0]
	id, err := parseThemeGID(node.ID)
	if err != nil {
		return domain.ThemeRef{}, fmt.Errorf("failed to parse theme id %q: %w", node.ID, err)
	}

	log.Debugf("Active theme for %s: %q (%d)", shop.Domain, node.Name, id)
	return domain.ThemeRef{ID: id, Name: node.Name}, nil
}

type assetEnvelope struct {
	Asset struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"asset"`
}

func (c *themeClient) ReadAsset(ctx context.Context, shop domain.ShopCredentials, themeID int64, key string) (string, error) {
	c.rl.Take()

	url := c.assetURL(shop, themeID)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", shop.AccessToken).
		SetQueryParam("asset[key]", key).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to read asset %q: %w", key, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", domain.ErrAssetNotFound, key)
	}
	if resp.IsError() {
		return "", &domain.RemoteError{
			StatusCode: resp.StatusCode(),
			AssetKey:   key,
			Detail:     truncate(resp.String()),
		}
	}

	var parsed assetEnvelope
	if err := json.Unmarshal([]byte(resp.String()), &parsed); err != nil {
		return "", fmt.Errorf("failed to decode asset %q: %w", key, err)
	}

	return parsed.Asset.Value, nil
}

func (c *themeClient) WriteAsset(ctx context.Context, shop domain.ShopCredentials, themeID int64, key, value string) error {
	c.rl.Take()

	url := c.assetURL(shop, themeID)

	payload := assetEnvelope{}
	payload.Asset.Key = key
	payload.Asset.Value = value

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode asset %q: %w", key, err)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", shop.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put(url)
	if err != nil {
		return fmt.Errorf("failed to write asset %q: %w", key, err)
	}
	if resp.IsError() {
		return &domain.RemoteError{
			StatusCode: resp.StatusCode(),
			AssetKey:   key,
			Detail:     truncate(resp.String()),
		}
	}

	log.Debugf("Wrote asset %q to theme %d for %s (%d bytes)", key, themeID, shop.Domain, len(value))
	return nil
}

func (c *themeClient) assetURL(shop domain.ShopCredentials, themeID int64) string {
	return fmt.Sprintf("%s://%s/admin/api/%s/themes/%d/assets.json",
		c.scheme, shop.Domain, c.config.APIVersion, themeID)
}

// parseThemeGID extracts the numeric id from a platform global id such as
// "gid://shopify/OnlineStoreTheme/123456789".
func parseThemeGID(gid string) (int64, error) {
	idx := strings.LastIndex(gid, "/")
	if idx < 0 || idx == len(gid)-1 {
		return 0, fmt.Errorf("unexpected gid format")
	}
	return strconv.ParseInt(gid[idx+1:], 10, 64)
}

func truncate(body string) string {
	const max = 512
	if len(body) > max {
		return body[:max]
	}
	return body
}

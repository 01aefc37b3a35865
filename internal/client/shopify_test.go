package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"convertforge/app/internal/config"
	"convertforge/app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

func testClient(_ string) *themeClient {
	return &themeClient{
		rl:         ratelimit.New(100),
		config:     config.ShopifyConfig{APIVersion: "2024-10", Timeout: 5, MaxRequestsPerSecond: 100},
		httpClient: resty.New(),
		scheme:     "http",
	}
}

func shopFor(serverURL string) domain.ShopCredentials {
	return domain.ShopCredentials{
		Domain:      strings.TrimPrefix(serverURL, "http://"),
		AccessToken: "shpat_test",
	}
}

func TestFindActiveTheme(t *testing.T) {
	t.Run("returns the main theme", func(t *testing.T) {
		var gotToken string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/admin/api/2024-10/graphql.json", r.URL.Path)
			gotToken = r.Header.Get("X-Shopify-Access-Token")

			fmt.Fprint(w, `{"data":{"themes":{"nodes":[{"id":"gid://shopify/OnlineStoreTheme/123456789","name":"Dawn"}]}}}`)
		}))
		defer srv.Close()

		ref, err := testClient(srv.URL).FindActiveTheme(context.Background(), shopFor(srv.URL))
		require.NoError(t, err)

		assert.Equal(t, int64(123456789), ref.ID)
		assert.Equal(t, "Dawn", ref.Name)
		assert.Equal(t, "shpat_test", gotToken)
	})

	t.Run("no published theme", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":{"themes":{"nodes":[]}}}`)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).FindActiveTheme(context.Background(), shopFor(srv.URL))
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNoActiveTheme))
	})

	t.Run("graphql-level errors become remote errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"errors":[{"message":"access denied"}]}`)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).FindActiveTheme(context.Background(), shopFor(srv.URL))
		require.Error(t, err)

		var remote *domain.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, "access denied", remote.Detail)
	})
}

func TestReadAsset(t *testing.T) {
	t.Run("returns the raw value", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/admin/api/2024-10/themes/111/assets.json", r.URL.Path)
			require.Equal(t, "templates/index.json", r.URL.Query().Get("asset[key]"))

			json.NewEncoder(w).Encode(map[string]any{
				"asset": map[string]string{"key": "templates/index.json", "value": `{"order":[],"blocks":{}}`},
			})
		}))
		defer srv.Close()

		value, err := testClient(srv.URL).ReadAsset(context.Background(), shopFor(srv.URL), 111, "templates/index.json")
		require.NoError(t, err)
		assert.Equal(t, `{"order":[],"blocks":{}}`, value)
	})

	t.Run("404 is the asset-not-found branch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).ReadAsset(context.Background(), shopFor(srv.URL), 111, "sections/missing.liquid")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrAssetNotFound))
	})

	t.Run("other statuses are remote errors with the asset key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":"Unauthorized"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).ReadAsset(context.Background(), shopFor(srv.URL), 111, "templates/index.json")
		require.Error(t, err)

		var remote *domain.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
		assert.Equal(t, "templates/index.json", remote.AssetKey)
	})
}

func TestWriteAsset(t *testing.T) {
	t.Run("puts the asset envelope", func(t *testing.T) {
		var got assetEnvelope
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			fmt.Fprint(w, `{"asset":{"key":"sections/cf-hero-sections-42.liquid"}}`)
		}))
		defer srv.Close()

		err := testClient(srv.URL).WriteAsset(context.Background(), shopFor(srv.URL), 111, "sections/cf-hero-sections-42.liquid", "<div></div>")
		require.NoError(t, err)

		assert.Equal(t, "sections/cf-hero-sections-42.liquid", got.Asset.Key)
		assert.Equal(t, "<div></div>", got.Asset.Value)
	})

	t.Run("write failures name the asset", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errors":"Forbidden"}`, http.StatusForbidden)
		}))
		defer srv.Close()

		err := testClient(srv.URL).WriteAsset(context.Background(), shopFor(srv.URL), 111, "sections/cf-x-1.liquid", "x")
		require.Error(t, err)

		var remote *domain.RemoteError
		require.True(t, errors.As(err, &remote))
		assert.Equal(t, http.StatusForbidden, remote.StatusCode)
		assert.Equal(t, "sections/cf-x-1.liquid", remote.AssetKey)
		assert.Contains(t, remote.Error(), "cf-x-1")
	})
}

func TestParseThemeGID(t *testing.T) {
	id, err := parseThemeGID("gid://shopify/OnlineStoreTheme/987")
	require.NoError(t, err)
	assert.Equal(t, int64(987), id)

	_, err = parseThemeGID("garbage")
	require.Error(t, err)
}

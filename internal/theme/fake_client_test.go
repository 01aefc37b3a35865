package theme

import (
	"context"
	"fmt"

	"convertforge/app/internal/domain"
)

type writeCall struct {
	themeID int64
	key     string
	value   string
}

// fakeThemeClient is an in-memory stand-in for the platform API. Reads
// serve from the assets map; every write is recorded.
type fakeThemeClient struct {
	theme    domain.ThemeRef
	themeErr error
	assets   map[string]string
	readErr  error
	writeErr error
	writes   []writeCall
}

func newFakeThemeClient() *fakeThemeClient {
	return &fakeThemeClient{
		theme:  domain.ThemeRef{ID: 111, Name: "Dawn"},
		assets: map[string]string{},
	}
}

func (f *fakeThemeClient) FindActiveTheme(ctx context.Context, shop domain.ShopCredentials) (domain.ThemeRef, error) {
	if f.themeErr != nil {
		return domain.ThemeRef{}, f.themeErr
	}
	return f.theme, nil
}

func (f *fakeThemeClient) ReadAsset(ctx context.Context, shop domain.ShopCredentials, themeID int64, key string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	value, ok := f.assets[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrAssetNotFound, key)
	}
	return value, nil
}

func (f *fakeThemeClient) WriteAsset(ctx context.Context, shop domain.ShopCredentials, themeID int64, key, value string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, writeCall{themeID: themeID, key: key, value: value})
	f.assets[key] = value
	return nil
}

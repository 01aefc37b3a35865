package events

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	t.Run("appends one stream entry per event", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		emitter := NewRedisEmitter(rdb, "convertforge:events")

		emitter.Emit(context.Background(), Event{
			Kind:       KindReplace,
			ShopDomain: "demo.myshopify.com",
			SectionID:  42,
			AssetKey:   "sections/cf-hero-sections-42.liquid",
			OldBlockID: "b1",
			NewBlockID: "cf_0000000000000000",
		})

		entries, err := rdb.XRange(context.Background(), "convertforge:events", "-", "+").Result()
		require.NoError(t, err)
		require.Len(t, entries, 1)

		values := entries[0].Values
		assert.Equal(t, KindReplace, values["kind"])
		assert.Equal(t, "demo.myshopify.com", values["shop_domain"])
		assert.Equal(t, "42", values["section_id"])
		assert.Equal(t, "b1", values["old_block_id"])
		assert.NotEmpty(t, values["id"])
		assert.NotEmpty(t, values["at"])
	})

	t.Run("emission failure does not panic", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		mr.Close()

		emitter := NewRedisEmitter(rdb, "convertforge:events")
		emitter.Emit(context.Background(), Event{Kind: KindInstall, ShopDomain: "demo.myshopify.com"})
	})
}

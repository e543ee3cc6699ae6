package integration

import (
	"context"
	"testing"
	"time"

	"fusefi/internal/model"
	"fusefi/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userSession() model.Session {
	id := uuid.New()
	return model.Session{UserID: &id, Name: "Jordan Reyes", Email: "jordan@example.com"}
}

func TestCatalogRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewCatalogRepository(testDB.Pool, zerolog.Nop())

	t.Run("GetProducts returns kits ordered by daily rate", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		products, err := repo.GetProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 3)

		assert.Equal(t, "event-hotspot", products[0].ID)
		assert.Equal(t, "event-router-kit", products[1].ID)
		assert.Equal(t, "bonded-5g-kit", products[2].ID)

		assert.True(t, decimal.RequireFromString("149").Equal(products[0].DailyRate))
		assert.Equal(t, 30, products[0].MaxDevices)
		assert.Contains(t, products[0].Features, "Dual-carrier LTE")
	})

	t.Run("GetProductByID returns a single kit", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		product, err := repo.GetProductByID(ctx, "bonded-5g-kit")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Bonded 5G Kit", product.Name)
		assert.True(t, decimal.RequireFromString("599").Equal(product.DailyRate))
		assert.Equal(t, 250, product.MaxDevices)
	})

	t.Run("GetProductByID returns nil for unknown kit", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		product, err := repo.GetProductByID(ctx, "mesh-backhaul-kit")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("GetProductsByIDs returns only the requested kits in rate order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		products, err := repo.GetProductsByIDs(ctx, []string{"bonded-5g-kit", "event-hotspot", "missing"})
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "event-hotspot", products[0].ID)
		assert.Equal(t, "bonded-5g-kit", products[1].ID)
	})

	t.Run("GetShippingOptions returns options in display order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		options, err := repo.GetShippingOptions(ctx)
		require.NoError(t, err)
		require.Len(t, options, 3)
		assert.Equal(t, "standard", options[0].ID)
		assert.Equal(t, "expedited", options[1].ID)
		assert.Equal(t, "overnight", options[2].ID)
		assert.True(t, options[0].BasePrice.IsZero())
	})

	t.Run("GetShippingOptionByID returns nil for unknown option", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		option, err := repo.GetShippingOptionByID(ctx, "drone-drop")
		require.NoError(t, err)
		assert.Nil(t, option)
	})
}

func TestUserCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	ctx := context.Background()
	repo := repository.NewUserCartRepository(testDB.Pool, zerolog.Nop())

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("Save and Load round-trips the full cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)
		sess := userSession()

		record := &repository.CartRecord{
			Items: []repository.CartRecordItem{
				{ProductID: "event-router-kit", Quantity: 2},
				{ProductID: "event-hotspot", Quantity: 1},
			},
			EventStart:       &start,
			EventEnd:         &end,
			EventLocation:    "Zilker Park, Austin TX",
			ShippingOptionID: "expedited",
		}
		require.NoError(t, repo.Save(ctx, sess, record))

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, loaded)

		require.Len(t, loaded.Items, 2)
		assert.Equal(t, "event-router-kit", loaded.Items[0].ProductID)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
		assert.Equal(t, "event-hotspot", loaded.Items[1].ProductID)

		require.NotNil(t, loaded.EventStart)
		require.NotNil(t, loaded.EventEnd)
		assert.True(t, start.Equal(*loaded.EventStart))
		assert.True(t, end.Equal(*loaded.EventEnd))
		assert.Equal(t, "Zilker Park, Austin TX", loaded.EventLocation)
		assert.Equal(t, "expedited", loaded.ShippingOptionID)
	})

	t.Run("Load returns nil when the user has no cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)

		loaded, err := repo.Load(ctx, userSession())
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Save replaces the stored item set", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)
		sess := userSession()

		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			Items: []repository.CartRecordItem{
				{ProductID: "event-hotspot", Quantity: 1},
				{ProductID: "event-router-kit", Quantity: 1},
			},
		}))

		// Second snapshot drops the hotspot and bumps the router kit.
		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			Items: []repository.CartRecordItem{
				{ProductID: "event-router-kit", Quantity: 3},
			},
			EventLocation: "Moscone Center",
		}))

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, "event-router-kit", loaded.Items[0].ProductID)
		assert.Equal(t, 3, loaded.Items[0].Quantity)
		assert.Equal(t, "Moscone Center", loaded.EventLocation)
		assert.Nil(t, loaded.EventStart)
	})

	t.Run("Save with no items clears the item rows", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)
		sess := userSession()

		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			Items: []repository.CartRecordItem{{ProductID: "bonded-5g-kit", Quantity: 1}},
		}))
		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			EventLocation: "still here",
		}))

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Empty(t, loaded.Items)
		assert.Equal(t, "still here", loaded.EventLocation)
	})

	t.Run("Clear removes the cart entirely", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedCatalog(t, testDB.Pool)
		sess := userSession()

		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			Items:         []repository.CartRecordItem{{ProductID: "event-hotspot", Quantity: 2}},
			EventLocation: "Lakefront Pavilion",
		}))
		require.NoError(t, repo.Clear(ctx, sess))

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("guest sessions are rejected", func(t *testing.T) {
		guest := model.Session{GuestID: "session-1"}

		_, err := repo.Load(ctx, guest)
		assert.Error(t, err)

		err = repo.Save(ctx, guest, &repository.CartRecord{})
		assert.Error(t, err)

		err = repo.Clear(ctx, guest)
		assert.Error(t, err)
	})
}

func TestGuestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	client := SetupTestRedis(t)
	ctx := context.Background()
	repo := repository.NewGuestCartRepository(client, time.Hour, zerolog.Nop())

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)

	t.Run("Save and Load round-trips the guest cart", func(t *testing.T) {
		sess := model.Session{GuestID: uuid.NewString()}

		record := &repository.CartRecord{
			Items:            []repository.CartRecordItem{{ProductID: "event-hotspot", Quantity: 2}},
			EventStart:       &start,
			EventEnd:         &end,
			EventLocation:    "Zilker Park, Austin TX",
			ShippingOptionID: "standard",
		}
		require.NoError(t, repo.Save(ctx, sess, record))

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, "event-hotspot", loaded.Items[0].ProductID)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
		assert.True(t, start.Equal(*loaded.EventStart))
		assert.Equal(t, "standard", loaded.ShippingOptionID)
	})

	t.Run("Load returns nil for an unknown session", func(t *testing.T) {
		loaded, err := repo.Load(ctx, model.Session{GuestID: uuid.NewString()})
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Save sets a TTL on the record", func(t *testing.T) {
		sess := model.Session{GuestID: uuid.NewString()}
		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			Items: []repository.CartRecordItem{{ProductID: "event-router-kit", Quantity: 1}},
		}))

		ttl, err := client.TTL(ctx, "cart:guest:"+sess.GuestID).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, 50*time.Minute)
	})

	t.Run("Clear removes the record", func(t *testing.T) {
		sess := model.Session{GuestID: uuid.NewString()}
		require.NoError(t, repo.Save(ctx, sess, &repository.CartRecord{
			Items: []repository.CartRecordItem{{ProductID: "bonded-5g-kit", Quantity: 1}},
		}))
		require.NoError(t, repo.Clear(ctx, sess))

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("malformed record is treated as an empty cart", func(t *testing.T) {
		sess := model.Session{GuestID: uuid.NewString()}
		require.NoError(t, client.Set(ctx, "cart:guest:"+sess.GuestID, "not json", time.Hour).Err())

		loaded, err := repo.Load(ctx, sess)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}

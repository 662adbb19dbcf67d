package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcregistry/internal/models"
	"rcregistry/internal/registry"
)

func newTestServer(t *testing.T) (*Client, *registry.MemStore) {
	t.Helper()
	st := registry.NewMemStore()
	r := mux.NewRouter()
	registry.RegisterRoutes(r, "/rc_car", registry.New(st))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/rc_car/", time.Second), st
}

func TestUpdateAndGetAvailable(t *testing.T) {
	c, st := newTestServer(t)
	st.Put(models.Connection{ID: 5})
	ctx := context.Background()

	require.NoError(t, c.Update(ctx, UpdateParams{ID: 5, Name: "car", IP: "192.168.1.10", Port: 8080, SSID: "net1", Available: true}))

	out, err := c.GetAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "192.168.1.10", out[0].IP)
	assert.Equal(t, 8080, out[0].Port)

	got, _ := st.Get(5)
	assert.Equal(t, "car", got.Name)

	require.NoError(t, c.Deactivate(ctx, 5))
	out, err = c.GetAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGetIDSingleUse(t *testing.T) {
	c, st := newTestServer(t)
	k := "one-shot"
	st.Put(models.Connection{ID: 9, UniqueAuthKey: &k})

	id, err := c.GetID(context.Background(), k)
	require.NoError(t, err)
	assert.Equal(t, uint(9), id)

	_, err = c.GetID(context.Background(), k)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVersion(t *testing.T) {
	c, _ := newTestServer(t)
	ctx := context.Background()

	_, err := c.Version(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.SetVersion(ctx, "2.0.1"))
	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0.1", v)
}

func TestStatusError(t *testing.T) {
	c, _ := newTestServer(t)
	err := c.Update(context.Background(), UpdateParams{ID: 1, IP: "bad", Port: 1})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "update", se.Op)
}

func TestAnnounce(t *testing.T) {
	c, st := newTestServer(t)
	st.Put(models.Connection{ID: 3})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Announce(ctx, c, UpdateParams{ID: 3, IP: "10.0.0.3", Port: 4000, SSID: "lab"}, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		got, _ := st.Get(3)
		return got.Available == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("announce did not stop")
	}
	got, _ := st.Get(3)
	assert.Equal(t, 0, got.Available)
}

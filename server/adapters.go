package server

import (
	"context"

	"rcregistry/internal/models"
	"rcregistry/internal/registry"
	"rcregistry/internal/repo"
)

// storeAdapter собирает registry.Store из двух gorm-хранилищ.
type storeAdapter struct {
	cs *repo.ConnectionStore
	vs *repo.VersionStore
}

func newStoreAdapter(cs *repo.ConnectionStore, vs *repo.VersionStore) registry.Store {
	return &storeAdapter{cs: cs, vs: vs}
}

func (a *storeAdapter) Deactivate(ctx context.Context, id uint) error { return a.cs.Deactivate(ctx, id) }
func (a *storeAdapter) Activate(ctx context.Context, id uint) error   { return a.cs.Activate(ctx, id) }

func (a *storeAdapter) ListAvailable(ctx context.Context) ([]models.Connection, error) {
	return a.cs.ListAvailable(ctx)
}

func (a *storeAdapter) ConsumeAuthKey(ctx context.Context, key string) (uint, error) {
	return a.cs.ConsumeAuthKey(ctx, key)
}

func (a *storeAdapter) Update(ctx context.Context, in models.UpdateFields) error {
	return a.cs.Update(ctx, in)
}

func (a *storeAdapter) SetVersion(ctx context.Context, v string) error { return a.vs.SetVersion(ctx, v) }
func (a *storeAdapter) GetVersion(ctx context.Context) (string, error) { return a.vs.GetVersion(ctx) }

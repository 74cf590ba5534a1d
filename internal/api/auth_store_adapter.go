package api

import "github.com/aliskandarani/raai/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindAdminByEmail(email string) (*services.Admin, error) {
	rec, err := a.store.FindAdminByEmail(email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return &services.Admin{ID: rec.ID, Email: rec.Email, PassHash: rec.PassHash, CreatedAt: rec.CreatedAt}, nil
}

func (a *authStoreAdapter) AddAdmin(ad *services.Admin) error {
	if ad == nil {
		return services.NewInvalidError("admin required")
	}
	return a.store.AddAdmin(&Admin{ID: ad.ID, Email: ad.Email, PassHash: ad.PassHash, CreatedAt: ad.CreatedAt})
}

var _ services.AuthStore = (*authStoreAdapter)(nil)

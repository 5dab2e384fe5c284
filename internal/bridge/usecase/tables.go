package usecase

import (
	"context"

	"cms-bridge/internal/bridge/domain/model"
)

// ListTables reports {name, rowCount} for both backing stores. A store
// that is not wired in this mode is simply absent from the result.
func (u *BridgeUsecase) ListTables(ctx context.Context) ([]model.StoreTables, error) {
	var out []model.StoreTables

	if u.legacy != nil && u.router.NeedsLegacy() {
		tables, err := u.legacy.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, model.StoreTables{Store: "legacy", Tables: tables})
	}

	if lister, ok := u.primary.(interface {
		ListTables(ctx context.Context) ([]model.TableInfo, error)
	}); ok && u.primary != nil {
		tables, err := lister.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, model.StoreTables{Store: "primary", Tables: tables})
	}

	return out, nil
}

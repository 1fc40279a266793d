package repo

import (
	"context"

	"hamburgueria/internal/storefront/app/core"
	"hamburgueria/internal/storefront/domain/models"
	"hamburgueria/internal/xpkg/logger"
)

type CartRepo struct {
	store core.IStore
	mylog logger.Logger
}

func NewCartRepo(store core.IStore, mylog logger.Logger) *CartRepo {
	return &CartRepo{store: store, mylog: mylog}
}

func (cr *CartRepo) lines(sessionID string) collection[models.CartLine] {
	return collection[models.CartLine]{
		store:    cr.store,
		key:      core.CartKeyPrefix + sessionID,
		validate: models.CartLine.Validate,
		mylog:    cr.mylog,
	}
}

func (cr *CartRepo) Load(ctx context.Context, sessionID string) (models.Cart, error) {
	lines, err := cr.lines(sessionID).load(ctx)
	if err != nil {
		return models.Cart{}, err
	}
	return models.Cart{Lines: dedupeLines(lines)}, nil
}

func (cr *CartRepo) Save(ctx context.Context, sessionID string, cart models.Cart) error {
	return cr.lines(sessionID).save(ctx, cart.Lines)
}

// dedupeLines folds repeated product ids written by older clients into one line.
func dedupeLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	at := make(map[string]int, len(lines))
	for _, l := range lines {
		if i, ok := at[l.Product.ID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		at[l.Product.ID] = len(out)
		out = append(out, l)
	}
	return out
}

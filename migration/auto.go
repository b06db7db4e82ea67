package migration

import (
	"context"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/pkg/xcontext"
)

// AutoMigrate builds the schema straight from the entities. Used by
// local setups and tests; production deploys run the SQL migrations.
func AutoMigrate(ctx context.Context) error {
	return entity.MigrateTable(xcontext.DB(ctx))
}

package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/recipebook-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

// EnsureRecipeConstraints adds the Postgres-only guards GORM tags cannot express.
func EnsureRecipeConstraints(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"chk_recipe_relation_no_self_loop", `DO $$ BEGIN
			ALTER TABLE recipe_relation ADD CONSTRAINT chk_recipe_relation_no_self_loop CHECK (parent_recipe_id <> child_recipe_id);
		EXCEPTION WHEN duplicate_object THEN NULL; END $$;`},
		{"idx_recipe_user_updated", `CREATE INDEX IF NOT EXISTS idx_recipe_user_updated ON recipe(user_id, updated_at DESC);`},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}

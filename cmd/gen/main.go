// Command gen writes typed gorm/gen query helpers for the persistence models.
// Run it from the repository root.
package main

import (
	"gramosi/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.AccountModel{},
		model.FollowModel{},
		model.PostModel{},
		model.PostLikeModel{},
		model.SavedPostModel{},
		model.CommentModel{},
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:       "./internal/infra/persistence/postgres/query",
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable: true,
	})

	g.ApplyBasic(models...)

	g.Execute()
}

package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

type ResourcesRepository struct {
	db *sqlx.DB
}

func NewResourcesRepository(db *sqlx.DB) *ResourcesRepository {
	return &ResourcesRepository{db}
}

func (r *ResourcesRepository) List() ([]domain.Resource, error) {
	var rows []Resource
	if err := r.db.Select(&rows, "SELECT id, title, file_path, signed_url, category FROM resources ORDER BY id"); err != nil {
		return nil, err
	}
	items := make([]domain.Resource, len(rows))
	for i, row := range rows {
		items[i] = domain.Resource(row)
	}
	return items, nil
}

func (r *ResourcesRepository) UpdateSignedURL(id int64, url string) error {
	res, err := r.db.Exec("UPDATE resources SET signed_url=$1 WHERE id=$2", url, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

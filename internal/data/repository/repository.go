package repository

import (
	"property-portal/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Account AccountRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Account: NewAccountRepository(db, log),
	}
}

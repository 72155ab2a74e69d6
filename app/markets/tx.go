package markets

import "gorm.io/gorm"

// TxManager runs an operation inside a database transaction, handing it a
// Repository bound to that transaction.
type TxManager interface {
	RunInTx(fn func(Repository) error) error
}

type gormTxManager struct {
	db   *gorm.DB
	repo Repository
}

func NewTxManager(db *gorm.DB, repo Repository) TxManager {
	return &gormTxManager{db: db, repo: repo}
}

func (m *gormTxManager) RunInTx(fn func(Repository) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(m.repo.WithTx(tx))
	})
}

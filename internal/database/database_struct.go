package database

import (
	"log/slog"

	"gorm.io/gorm"
)

type Database struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewDatabase(db *gorm.DB, log *slog.Logger) *Database {
	return &Database{db: db, log: log}
}

// Close закрывает пул соединений
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package db

import (
	"log"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	mockDb, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDb}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func TestNewDBOverride(t *testing.T) {
	gormDB, _ := NewMockDB()
	NewDB(gormDB)

	assert.Same(t, gormDB, GetDb())
}

func TestGetDbRunsQueries(t *testing.T) {
	gormDB, mock := NewMockDB()
	NewDB(gormDB)

	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	var n int
	err := GetDb().Raw("SELECT 1").Scan(&n).Error
	assert.Nil(t, err)
	assert.Equal(t, 1, n)
	assert.Nil(t, mock.ExpectationsWereMet())
}

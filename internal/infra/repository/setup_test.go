package repository

import (
	"fmt"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとに独立したインメモリDB
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func seedCustomer(t *testing.T, gormDB *gorm.DB, email string) model.Customer {
	t.Helper()
	c := model.Customer{Email: email, FirstName: "Test", LastName: "User", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, gormDB.Create(&c).Error)
	return c
}

func seedProduct(t *testing.T, gormDB *gorm.DB, name string, price int64) model.Product {
	t.Helper()
	p := model.Product{Name: name, Description: name + " description", Price: price, Stock: 10}
	require.NoError(t, gormDB.Create(&p).Error)
	return p
}

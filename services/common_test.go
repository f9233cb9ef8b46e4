package services

import (
	"strings"
	"testing"

	"github.com/bellapacxx/retro-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// SQLite cannot demonstrate the row lock at runtime (it has one writer), so
// assert the generated SQL instead: no FOR UPDATE on sqlite, FOR UPDATE on
// every other dialect.
func TestLockForUpdateByDialect(t *testing.T) {
	lite := newTestDB(t).Session(&gorm.Session{DryRun: true})
	sql := lockForUpdate(lite).First(&models.Session{}, "id = ?", "x").Statement.SQL.String()
	if strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("sqlite query carries FOR UPDATE: %s", sql)
	}

	dummy, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	sql = lockForUpdate(dummy).First(&models.Session{}, "id = ?", "x").Statement.SQL.String()
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("row lock missing from query: %s", sql)
	}
}

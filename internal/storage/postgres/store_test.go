package postgres_test

import (
	"testing"

	"github.com/KpG782/qr-registration/internal/storage"
	"github.com/KpG782/qr-registration/internal/storage/postgres"
	"github.com/KpG782/qr-registration/internal/storage/storagetest"
	"github.com/KpG782/qr-registration/internal/testutil"
	"github.com/stretchr/testify/suite"
)

func newStore(t *testing.T) storage.Store {
	t.Helper()
	return postgres.New(testutil.FreshPostgres(t))
}

func TestStoreContract(t *testing.T) {
	suite.Run(t, &storagetest.Suite{NewStore: newStore})
}

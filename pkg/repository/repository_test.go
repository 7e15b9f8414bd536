package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/interfaces"
	"github.com/secmon-lab/cisboard/pkg/repository/firestore"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/repository/rdb"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newSQLiteRepository(t *testing.T) interfaces.Repository {
	repo, err := rdb.NewSQLite(filepath.Join(t.TempDir(), "cisboard.db"))
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Migrate(context.Background())).Required()
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	projectID := os.Getenv("CISBOARD_TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("CISBOARD_TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("CISBOARD_TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

// runAll runs suite against every backend
func runAll(t *testing.T, suite func(t *testing.T, newRepo repoFactory)) {
	t.Run("memory", func(t *testing.T) {
		suite(t, newMemoryRepository)
	})
	t.Run("sqlite", func(t *testing.T) {
		suite(t, newSQLiteRepository)
	})
	t.Run("firestore", func(t *testing.T) {
		suite(t, newFirestoreRepository)
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, interfaces.ErrNotFound)
}

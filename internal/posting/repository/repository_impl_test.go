package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) postingdomain.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&postingdomain.PostingRun{}))
	return NewRepository(repositoryParam{DB: db})
}

func TestSaveAndListRuns(t *testing.T) {
	repo := newTestRepository(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	first := &postingdomain.PostingRun{
		ID:           node.Generate(),
		TemplateDoc:  "GL-1",
		CurrencyCode: "USD",
		TranValue:    "126.50",
		Targets:      3,
		Succeeded:    2,
		Failed:       1,
		Errors:       datatypes.JSON(`[{"reference_id":102,"message":"account closed"}]`),
		CreatedAt:    time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	second := &postingdomain.PostingRun{
		ID:           node.Generate(),
		TemplateDoc:  "GL-2",
		CurrencyCode: "USD",
		TranValue:    "50.00",
		Targets:      1,
		Succeeded:    1,
		Errors:       datatypes.JSON("[]"),
		CreatedAt:    time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveRun(context.Background(), first))
	require.NoError(t, repo.SaveRun(context.Background(), second))

	runs, err := repo.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "GL-2", runs[0].TemplateDoc, "newest run first")
	assert.Equal(t, 1, runs[1].Failed)
	assert.Contains(t, string(runs[1].Errors), "account closed")
}

func TestListRunsDefaultLimit(t *testing.T) {
	repo := newTestRepository(t)
	runs, err := repo.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

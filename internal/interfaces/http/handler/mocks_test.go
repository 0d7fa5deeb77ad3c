package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	appRecipe "github.com/recipechat/backend/internal/application/recipe"
	domainRecipe "github.com/recipechat/backend/internal/domain/recipe"
)

type mockIngester struct {
	mock.Mock
}

func (m *mockIngester) Ingest(ctx context.Context, url string) (*appRecipe.IngestResult, error) {
	args := m.Called(ctx, url)
	res, _ := args.Get(0).(*appRecipe.IngestResult)
	return res, args.Error(1)
}

type mockDocuments struct {
	mock.Mock
}

func (m *mockDocuments) GetDocuments(ctx context.Context, url string) ([]string, error) {
	args := m.Called(ctx, url)
	texts, _ := args.Get(0).([]string)
	return texts, args.Error(1)
}

func (m *mockDocuments) DeleteCollection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockDocuments) GetRecord(url string) (*domainRecipe.RecipeRecord, error) {
	args := m.Called(url)
	rec, _ := args.Get(0).(*domainRecipe.RecipeRecord)
	return rec, args.Error(1)
}

func (m *mockDocuments) ListRecords(limit, offset int) ([]*domainRecipe.RecipeRecord, error) {
	args := m.Called(limit, offset)
	recs, _ := args.Get(0).([]*domainRecipe.RecipeRecord)
	return recs, args.Error(1)
}

type mockAssistant struct {
	mock.Mock
}

func (m *mockAssistant) Ask(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

package handler

import (
	"context"
	"testing"

	"github.com/AnTengye/casebrief/service"
	"github.com/AnTengye/casebrief/web"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestStore(t *testing.T) *service.CaseStore {
	t.Helper()
	path := "../service/testdata/opinions.csv"
	records, err := service.LoadDataset(context.Background(), service.NewLocalSource(path), service.LoadOptions{HasHeader: true})
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	store := service.NewCaseStore()
	store.Load(records, path)
	return store
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	tmpl, err := web.Templates()
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	return router
}

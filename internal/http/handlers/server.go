package handlers

import (
	repo "github.com/rogerio-castellano/inventory-flow/internal/repo"
	"go.uber.org/zap"
)

var (
	productRepo repo.ProductRepository
	summaryRepo repo.SummaryRepository

	logger = zap.NewNop()
)

func SetProductRepo(r repo.ProductRepository) {
	productRepo = r
}

func SetSummaryRepo(r repo.SummaryRepository) {
	summaryRepo = r
}

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

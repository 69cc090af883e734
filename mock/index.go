package mock

import (
	"context"

	"github.com/fwojciec/docbase"
)

var _ docbase.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of docbase.IndexService.
type IndexService struct {
	UpsertFn     func(ctx context.Context, doc *docbase.Document) error
	FindByIDFn   func(ctx context.Context, id string) (*docbase.Document, error)
	AllFn        func(ctx context.Context) ([]*docbase.Document, error)
	DeleteFn     func(ctx context.Context, id string) error
	RecordMissFn func(ctx context.Context, id string) (int, error)
	VersionFn    func(ctx context.Context) (int64, error)
}

func (s *IndexService) Upsert(ctx context.Context, doc *docbase.Document) error {
	return s.UpsertFn(ctx, doc)
}

func (s *IndexService) FindByID(ctx context.Context, id string) (*docbase.Document, error) {
	return s.FindByIDFn(ctx, id)
}

func (s *IndexService) All(ctx context.Context) ([]*docbase.Document, error) {
	return s.AllFn(ctx)
}

func (s *IndexService) Delete(ctx context.Context, id string) error {
	return s.DeleteFn(ctx, id)
}

func (s *IndexService) RecordMiss(ctx context.Context, id string) (int, error) {
	return s.RecordMissFn(ctx, id)
}

func (s *IndexService) Version(ctx context.Context) (int64, error) {
	return s.VersionFn(ctx)
}

var _ docbase.Store = (*Store)(nil)

// Store is a mock implementation of docbase.Store.
type Store struct {
	WriteBodyFn  func(ctx context.Context, doc *docbase.Document, body string) (string, error)
	ReadBodyFn   func(ctx context.Context, storagePath string) (*docbase.Document, string, error)
	RemoveBodyFn func(ctx context.Context, storagePath string) error
	ListBodiesFn func(ctx context.Context) ([]string, error)
}

func (s *Store) WriteBody(ctx context.Context, doc *docbase.Document, body string) (string, error) {
	return s.WriteBodyFn(ctx, doc, body)
}

func (s *Store) ReadBody(ctx context.Context, storagePath string) (*docbase.Document, string, error) {
	return s.ReadBodyFn(ctx, storagePath)
}

func (s *Store) RemoveBody(ctx context.Context, storagePath string) error {
	return s.RemoveBodyFn(ctx, storagePath)
}

func (s *Store) ListBodies(ctx context.Context) ([]string, error) {
	return s.ListBodiesFn(ctx)
}

package service

import (
	"context"
	"fmt"

	"github.com/aouiniamine/eyecheck/internal/features/catalog/dto"
	"github.com/aouiniamine/eyecheck/internal/features/catalog/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const idField = "_id"

type CatalogService interface {
	List(ctx context.Context) ([]dto.Document, error)
}

type catalogService struct {
	repo repository.ItemRepository
}

func New(repo repository.ItemRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) List(ctx context.Context) ([]dto.Document, error) {
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]dto.Document, len(docs))
	for i, doc := range docs {
		for j := range doc {
			if doc[j].Key == idField {
				doc[j].Value = StringifyID(doc[j].Value)
			}
		}
		items[i] = dto.Document(doc)
	}
	return items, nil
}

// StringifyID renders an identifier for transport: ObjectIDs as 24-char hex,
// strings unchanged, anything else in its default format.
func StringifyID(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

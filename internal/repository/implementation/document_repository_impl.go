package implementation

import (
	"context"
	"errors"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/mapper"
	"doc-knowledge-be/internal/model"
	"doc-knowledge-be/internal/repository/contract"
	"doc-knowledge-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	modelDoc := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(modelDoc).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(modelDoc)
	return nil
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var modelDoc model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelDoc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelDoc), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var modelDocs []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelDocs).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelDocs), nil
}

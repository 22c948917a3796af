package mapper

import (
	"encoding/json"

	"doc-knowledge-be/internal/entity"
	"doc-knowledge-be/internal/model"

	"gorm.io/datatypes"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &meta)
	}
	return &entity.Document{
		Id:        d.Id,
		Filename:  d.Filename,
		Bucket:    entity.Bucket(d.Bucket),
		Content:   d.Content,
		Metadata:  meta,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}
	var meta datatypes.JSON
	if d.Metadata != nil {
		raw, err := json.Marshal(d.Metadata)
		if err == nil {
			meta = raw
		}
	}
	return &model.Document{
		Id:        d.Id,
		Filename:  d.Filename,
		Bucket:    string(d.Bucket),
		Content:   d.Content,
		Metadata:  meta,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

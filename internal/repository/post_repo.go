package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/model"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 创建帖子，ID 为空时生成 UUID
func (r *PostRepository) Create(post *model.PostRecord) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	return r.db.Create(post).Error
}

func (r *PostRepository) GetByID(id string) (*model.PostRecord, error) {
	var post model.PostRecord
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Update(post *model.PostRecord) error {
	return r.db.Save(post).Error
}

func (r *PostRepository) Delete(id string) (int64, error) {
	result := r.db.Where("id = ?", id).Delete(&model.PostRecord{})
	return result.RowsAffected, result.Error
}

// List 分页获取帖子，asc 为 true 时按创建时间升序
func (r *PostRepository) List(page, limit int, asc bool) ([]*model.PostRecord, int64, error) {
	var posts []*model.PostRecord
	var total int64

	query := r.db.Model(&model.PostRecord{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if asc {
		order = "created_at ASC"
	}

	offset := (page - 1) * limit
	err := query.Order(order).Offset(offset).Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qs3c/postboard_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论，ID 为空时生成 UUID
func (r *CommentRepository) Create(comment *model.CommentRecord) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	return r.db.Create(comment).Error
}

// GetByID 获取帖子下的评论
func (r *CommentRepository) GetByID(postID, id string) (*model.CommentRecord, error) {
	var comment model.CommentRecord
	err := r.db.Where("post_id = ? AND id = ?", postID, id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update 保存评论
func (r *CommentRepository) Update(comment *model.CommentRecord) error {
	return r.db.Save(comment).Error
}

// Delete 删除单条评论，不处理子回复
func (r *CommentRepository) Delete(postID, id string) (int64, error) {
	result := r.db.Where("post_id = ? AND id = ?", postID, id).Delete(&model.CommentRecord{})
	return result.RowsAffected, result.Error
}

// ListByPostID 获取帖子下全部评论（扁平，按创建时间升序）
func (r *CommentRepository) ListByPostID(postID string) ([]*model.CommentRecord, error) {
	var comments []*model.CommentRecord
	err := r.db.Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// CountByPostID 获取帖子的评论数
func (r *CommentRepository) CountByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.CommentRecord{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
// 唯一性校验在写入前查询完成,调用方负责把整个流程放进事务
type Service interface {
	// CreateBook 上架新书
	// 业务规则:书名、ISBN在目录中唯一
	CreateBook(ctx context.Context, title, author, isbn string, quantity int, shelfLocation string) (*Book, error)

	// EditBook 部分更新
	// 业务规则:
	// - 修改书名/ISBN时不能与其他图书冲突
	// - 提供的字段必须与当前值不同
	EditBook(ctx context.Context, id uint, patch Patch) (*Book, error)

	// RemoveBook 删除图书
	RemoveBook(ctx context.Context, id uint) error

	// GetBook 查询详情
	GetBook(ctx context.Context, id uint) (*Book, error)

	// ListBooks 分页查询
	ListBooks(ctx context.Context, filter ListFilter) ([]*Book, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBook(ctx context.Context, title, author, isbn string, quantity int, shelfLocation string) (*Book, error) {
	b, err := NewBook(title, author, isbn, quantity, shelfLocation)
	if err != nil {
		return nil, err
	}

	if err := s.ensureTitleFree(ctx, b.Title); err != nil {
		return nil, err
	}
	if err := s.ensureISBNFree(ctx, b.ISBN); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) EditBook(ctx context.Context, id uint, patch Patch) (*Book, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 先检查冲突,再检查无变化
	if patch.Title != nil && *patch.Title != b.Title {
		if err := s.ensureTitleFree(ctx, *patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.ISBN != nil && *patch.ISBN != b.ISBN {
		if err := s.ensureISBNFree(ctx, *patch.ISBN); err != nil {
			return nil, err
		}
	}

	if err := b.checkChanges(patch); err != nil {
		return nil, err
	}
	if err := b.apply(patch); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) RemoveBook(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, filter ListFilter) ([]*Book, int64, error) {
	return s.repo.List(ctx, filter)
}

// ensureTitleFree 书名未被占用
func (s *service) ensureTitleFree(ctx context.Context, title string) error {
	_, err := s.repo.FindByTitle(ctx, title)
	return checkFree(err, ErrTitleDuplicate)
}

// ensureISBNFree ISBN未被占用
func (s *service) ensureISBNFree(ctx context.Context, isbn string) error {
	_, err := s.repo.FindByISBN(ctx, isbn)
	return checkFree(err, ErrISBNDuplicate)
}

// checkFree 查到记录说明冲突,ErrBookNotFound说明可用,其余错误原样返回
func checkFree(err error, conflict error) error {
	if err == nil {
		return conflict
	}
	if errors.Is(err, ErrBookNotFound) {
		return nil
	}
	return err
}

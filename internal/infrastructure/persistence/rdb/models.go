package rdb

import (
	"time"
)

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
// 4. 不使用软删除，删除借阅者后邮箱可以重新注册
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Name      string    `gorm:"size:100;not null;comment:姓名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// LibrarianModel 馆员模型，与users一对一
type LibrarianModel struct {
	ID       uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"uniqueIndex;not null;comment:用户ID"`
	Password string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	User     UserModel `gorm:"foreignKey:UserID"`
}

// TableName 指定表名
func (LibrarianModel) TableName() string {
	return "librarians"
}

// BorrowerModel 借阅者模型，与users一对一
type BorrowerModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"uniqueIndex;not null;comment:用户ID"`
	RegisteredDate time.Time `gorm:"not null;comment:注册时间"`
	User           UserModel `gorm:"foreignKey:UserID"`
}

// TableName 指定表名
func (BorrowerModel) TableName() string {
	return "borrowers"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 书名、ISBN有唯一索引，并发创建时由数据库兜底
// 2. quantity有CHECK约束，任何时候不能为负
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"uniqueIndex;size:200;not null;comment:书名"`
	Author        string    `gorm:"index;size:100;not null;comment:作者"`
	ISBN          string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Quantity      int       `gorm:"not null;default:0;check:chk_books_quantity,quantity >= 0;comment:可借数量"`
	ShelfLocation string    `gorm:"size:50;not null;comment:书架位置"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BorrowModel 借阅记录模型
// return_date为NULL表示未归还
type BorrowModel struct {
	ID         uint       `gorm:"primaryKey"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	BorrowerID uint       `gorm:"index:idx_borrower_open;not null;comment:借阅者ID"`
	BorrowDate time.Time  `gorm:"index;not null;comment:借出时间"`
	DueDate    time.Time  `gorm:"index;not null;comment:应还时间"`
	ReturnDate *time.Time `gorm:"index:idx_borrower_open;comment:归还时间"`
}

// TableName 指定表名
func (BorrowModel) TableName() string {
	return "borrows"
}

package models

// Follow is a directed edge: User receives Author's posts in their feed.
// The pair is unique and a user cannot follow themselves; both rules are
// schema constraints.
type Follow struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"not null;uniqueIndex:unique_pair;check:author_not_user,author_id <> user_id" json:"user_id"`
	User     User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID uint `gorm:"not null;uniqueIndex:unique_pair;index" json:"author_id"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

package models

import "time"

// postPreviewLen is the number of runes Post.String keeps.
const postPreviewLen = 15

// Post is a blog entry. PubDate is assigned on insert and never updated.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"autoCreateTime;index;not null" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id,omitempty"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image    string    `gorm:"size:255" json:"image,omitempty"`
}

func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		return string(r[:postPreviewLen])
	}
	return p.Text
}

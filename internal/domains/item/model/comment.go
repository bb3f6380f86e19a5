package model

import (
	"shareit/shared/model"
	"time"
)

const (
	CommentTableName  = "comments"
	CommentEntityName = "comment"

	CommentFieldItemID   = "item_id"
	CommentFieldAuthorID = "author_id"
	CommentFieldCreated  = "created"
)

type Comment struct {
	ID         string    `db:"id"`
	Text       string    `db:"text"`
	ItemID     string    `db:"item_id"`
	AuthorID   string    `db:"author_id"`
	Created    time.Time `db:"created"`
	AuthorName string    `db:"author_name" table:"users" column:"name"`
	model.Metadata
}

func (Comment) GetJoinQuery() string {
	return "JOIN users ON users.id = comments.author_id"
}

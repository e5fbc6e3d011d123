// Package domain defines the persistence models for users, pieces, tags, and
// files. These types are mapped with GORM and form the core data layer of
// the Sonata application, together with the payload shapes returned to
// clients (internal numeric ids are never serialized directly; payloads
// carry their opaque-codec form).
package domain

import "time"

// Piece practice states.
const (
	StateTodo     = 0
	StateLearning = 1
	StateDone     = 2
)

// User is an account holder. Email and Name are each globally unique.
// PasswordHash and Salt never appear in any client payload.
//
// Users own their pieces and tags; ownership is never transferred.
// ProfilePictureID optionally points at a stored File; the profile payload
// carries it in opaque form.
type User struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Email            string    `gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	Name             string    `gorm:"type:text;not null;uniqueIndex:ux_users_name"`
	PasswordHash     string    `gorm:"type:text;not null"`
	Salt             string    `gorm:"type:text;not null"`
	JoinedAt         time.Time `gorm:"not null"`
	ProfilePictureID *int64

	Tags   []Tag   `gorm:"foreignKey:UserID"`
	Pieces []Piece `gorm:"foreignKey:UserID"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Piece is the core owned resource: a musical work a user tracks through
// practice states. A user cannot have two pieces with the same
// name+instrument combination (enforced by the composite unique index; NULL
// instruments compare distinct, matching SQLite semantics).
//
// FileID/FileType describe the optional attachment: either a stored File row
// plus its MIME type, or FileType alone holding an external link.
type Piece struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"type:text;not null;uniqueIndex:ux_piece_name_per_user,priority:2"`
	Description *string   `gorm:"type:text"`
	Instrument  *string   `gorm:"type:text;uniqueIndex:ux_piece_name_per_user,priority:3"`
	State       int       `gorm:"not null"`
	UserID      int64     `gorm:"not null;index;uniqueIndex:ux_piece_name_per_user,priority:1"`
	AddedAt     time.Time `gorm:"not null"`
	FileID      *int64
	FileType    *string `gorm:"type:text"`

	Tags []Tag `gorm:"many2many:piece_tags"`
}

// TableName returns the database table name for Piece.
func (Piece) TableName() string { return "pieces" }

// Tag is a user-scoped colored label attachable to many pieces. The label
// text is unique per user.
type Tag struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	UserID int64  `gorm:"not null;index;uniqueIndex:ux_tag_per_user,priority:1"`
	Tag    string `gorm:"type:text;not null;uniqueIndex:ux_tag_per_user,priority:2"`
	Color  string `gorm:"type:text;not null"`

	Pieces []Piece `gorm:"many2many:piece_tags"`
}

// TableName returns the database table name for Tag.
func (Tag) TableName() string { return "tags" }

// File holds uploaded binary content plus the MIME type it was uploaded
// with. A File row lives only as long as a Piece references it.
type File struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Content []byte `gorm:"not null"`
	MIME    string `gorm:"type:text"`
}

// TableName returns the database table name for File.
func (File) TableName() string { return "files" }

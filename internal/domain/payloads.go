package domain

import "time"

// Encoder turns internal numeric ids into their opaque public form.
// Implemented by opaqueid.Codec.
type Encoder interface {
	MustEncode(id int64) string
}

// TagPayload is the client-facing shape of a Tag.
type TagPayload struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Tag    string `json:"tag"`
	Color  string `json:"color"`
}

// PiecePayload is the client-facing shape of a Piece, including its tags.
type PiecePayload struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description"`
	Instrument  *string      `json:"instrument"`
	State       int          `json:"state"`
	UserID      string       `json:"user_id"`
	AddedAt     time.Time    `json:"added_at"`
	FileID      *string      `json:"file_id"`
	FileType    *string      `json:"file_type"`
	Tags        []TagPayload `json:"tags"`
}

// UserPayload is the client-facing profile shape. It never carries the
// password hash, salt, or email.
type UserPayload struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	JoinedAt         time.Time      `json:"joined_at"`
	ProfilePictureID *string        `json:"profile_picture_id"`
	Tags             []TagPayload   `json:"tags"`
	Pieces           []PiecePayload `json:"pieces"`
}

// NewTagPayload builds the public shape of t.
func NewTagPayload(t Tag, enc Encoder) TagPayload {
	return TagPayload{
		ID:     enc.MustEncode(t.ID),
		UserID: enc.MustEncode(t.UserID),
		Tag:    t.Tag,
		Color:  t.Color,
	}
}

// NewPiecePayload builds the public shape of p, encoding every id.
func NewPiecePayload(p Piece, enc Encoder) PiecePayload {
	out := PiecePayload{
		ID:          enc.MustEncode(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Instrument:  p.Instrument,
		State:       p.State,
		UserID:      enc.MustEncode(p.UserID),
		AddedAt:     p.AddedAt,
		FileType:    p.FileType,
		Tags:        make([]TagPayload, 0, len(p.Tags)),
	}
	if p.FileID != nil {
		s := enc.MustEncode(*p.FileID)
		out.FileID = &s
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, NewTagPayload(t, enc))
	}
	return out
}

// NewUserPayload builds the composed profile shape of u with its tags and
// pieces.
func NewUserPayload(u User, enc Encoder) UserPayload {
	out := UserPayload{
		ID:       enc.MustEncode(u.ID),
		Name:     u.Name,
		JoinedAt: u.JoinedAt,
		Tags:     make([]TagPayload, 0, len(u.Tags)),
		Pieces:   make([]PiecePayload, 0, len(u.Pieces)),
	}
	if u.ProfilePictureID != nil {
		s := enc.MustEncode(*u.ProfilePictureID)
		out.ProfilePictureID = &s
	}
	for _, t := range u.Tags {
		out.Tags = append(out.Tags, NewTagPayload(t, enc))
	}
	for _, p := range u.Pieces {
		out.Pieces = append(out.Pieces, NewPiecePayload(p, enc))
	}
	return out
}

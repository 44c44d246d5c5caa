package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               int64     `json:"-"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name" db:"first_name"`
	LastName         string    `json:"last_name" db:"last_name"`
	Bio              string    `json:"bio"`
	Role             Role      `json:"role"`
	ConfirmationCode string    `json:"-" db:"confirmation_code"`
	IsStaff          bool      `json:"-" db:"is_staff"`
	IsSuperuser      bool      `json:"-" db:"is_superuser"`
	CreatedAt        time.Time `json:"-" db:"created_at"`
}

// AnonymousUser marks an unauthenticated request in the request context.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u.ID == 0
}

// IsAdmin reports whether the user holds administrative privilege, either
// through the admin role or the staff/superuser escalation flags.
func (u *User) IsAdmin() bool {
	return u.IsSuperuser || u.IsStaff || u.Role == RoleAdmin
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

type Category struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Genre struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Year        int32     `json:"year"`
	Description string    `json:"description"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
	// Rating is the mean of the title's review scores, nil when it has none.
	// Derived at query time, never stored.
	Rating *float64 `json:"rating"`
}

type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"title" db:"title_id"`
	AuthorID int64     `json:"-" db:"author_id"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int32     `json:"score"`
	PubDate  time.Time `json:"pub_date" db:"pub_date"`
}

type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"review" db:"review_id"`
	AuthorID int64     `json:"-" db:"author_id"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date" db:"pub_date"`
}

package accounts

import (
	"slices"
	"time"
)

const (
	RoleUser    = "user"
	RoleCompany = "company"
)

type Social struct {
	LinkedIn string `json:"linkedin" bson:"linkedin"`
	Twitter  string `json:"twitter" bson:"twitter"`
	Facebook string `json:"facebook" bson:"facebook"`
}

// UserProfile is the editable part of a user account.
type UserProfile struct {
	Phone      string   `json:"phone" bson:"phone"`
	Location   string   `json:"location" bson:"location"`
	Headline   string   `json:"headline" bson:"headline"`
	Bio        string   `json:"bio" bson:"bio"`
	Skills     []string `json:"skills" bson:"skills"`
	Experience string   `json:"experience" bson:"experience"`
	Education  string   `json:"education" bson:"education"`
	Portfolio  string   `json:"portfolio" bson:"portfolio"`
	Avatar     string   `json:"avatar" bson:"avatar"`
	AvatarType string   `json:"avatarType" bson:"avatarType"`
	CV         string   `json:"cv" bson:"cv"`
	CVType     string   `json:"cvType" bson:"cvType"`
	CVName     string   `json:"cvName" bson:"cvName"`
	CVPages    int      `json:"cvPages,omitempty" bson:"cvPages,omitempty"`
}

// User is a job seeker account. PasswordHash never leaves the service.
type User struct {
	ID           string `json:"id" bson:"_id"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password"`
	Name         string `json:"name" bson:"name"`
	Role         string `json:"role" bson:"role"`
	UserProfile  `bson:",inline"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CompanyProfile is the editable part of a company account.
type CompanyProfile struct {
	Industry    string `json:"industry" bson:"industry"`
	Website     string `json:"website" bson:"website"`
	Description string `json:"description" bson:"description"`
	Location    string `json:"location" bson:"location"`
	Phone       string `json:"phone" bson:"phone"`
	Logo        string `json:"logo" bson:"logo"`
	LogoType    string `json:"logoType" bson:"logoType"`
	Headline    string `json:"headline" bson:"headline"`
	Bio         string `json:"bio" bson:"bio"`
	Employees   int    `json:"employees" bson:"employees"`
	FoundedYear *int   `json:"foundedYear" bson:"foundedYear"`
	Social      Social `json:"social" bson:"social"`
}

// Company is an employer account.
type Company struct {
	ID             string `json:"id" bson:"_id"`
	Email          string `json:"email" bson:"email"`
	PasswordHash   string `json:"-" bson:"password"`
	Name           string `json:"name" bson:"name"`
	CompanyName    string `json:"companyName" bson:"companyName"`
	Role           string `json:"role" bson:"role"`
	CompanyProfile `bson:",inline"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Identity is what login and registration hand back.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CompanyName string `json:"companyName,omitempty"`
}

// Blob references a stored file attached to a profile.
type Blob struct {
	URL   string
	Type  string
	Name  string
	Pages int
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Name, Role: RoleUser}
}

func (c Company) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Name: c.Name, Role: RoleCompany, CompanyName: c.CompanyName}
}

// clone returns a copy that shares no slices or pointers with u.
func (u User) clone() User {
	u.Skills = slices.Clone(u.Skills)
	if u.Skills == nil {
		u.Skills = []string{}
	}
	u.Role = RoleUser
	return u
}

func (c Company) clone() Company {
	if c.FoundedYear != nil {
		year := *c.FoundedYear
		c.FoundedYear = &year
	}
	c.Role = RoleCompany
	return c
}

package accounts

import (
	"encoding/json"
	"errors"

	"jobboard-backend/internal/shared/patch"
)

// Keys a client may send back from a profile read but never change.
var serverOwned = []string{"password", "email", "role", "id", "_id", "__v", "createdAt", "updatedAt"}

var userIgnored = patch.Keys(append(serverOwned, "avatar", "avatarType", "cv", "cvType", "cvName", "cvPages")...)

var userFields = patch.Fields[User]{
	"name":       patch.String(func(u *User) *string { return &u.Name }),
	"phone":      patch.String(func(u *User) *string { return &u.Phone }),
	"location":   patch.String(func(u *User) *string { return &u.Location }),
	"headline":   patch.String(func(u *User) *string { return &u.Headline }),
	"bio":        patch.String(func(u *User) *string { return &u.Bio }),
	"skills":     patch.StringList(func(u *User) *[]string { return &u.Skills }),
	"experience": patch.String(func(u *User) *string { return &u.Experience }),
	"education":  patch.String(func(u *User) *string { return &u.Education }),
	"portfolio":  patch.String(func(u *User) *string { return &u.Portfolio }),
}

var companyIgnored = patch.Keys(append(serverOwned, "logo", "logoType")...)

var companyFields = patch.Fields[Company]{
	"name":        patch.String(func(c *Company) *string { return &c.Name }),
	"companyName": patch.RequiredString(func(c *Company) *string { return &c.CompanyName }),
	"industry":    patch.String(func(c *Company) *string { return &c.Industry }),
	"website":     patch.String(func(c *Company) *string { return &c.Website }),
	"description": patch.String(func(c *Company) *string { return &c.Description }),
	"location":    patch.String(func(c *Company) *string { return &c.Location }),
	"phone":       patch.String(func(c *Company) *string { return &c.Phone }),
	"headline":    patch.String(func(c *Company) *string { return &c.Headline }),
	"bio":         patch.String(func(c *Company) *string { return &c.Bio }),
	"employees":   patch.Int(func(c *Company) *int { return &c.Employees }),
	"foundedYear": patch.OptionalInt(func(c *Company) **int { return &c.FoundedYear }),
	"social":      setSocial,
}

var socialFields = patch.Fields[Social]{
	"linkedin": patch.String(func(s *Social) *string { return &s.LinkedIn }),
	"twitter":  patch.String(func(s *Social) *string { return &s.Twitter }),
	"facebook": patch.String(func(s *Social) *string { return &s.Facebook }),
}

var errNotObject = errors.New("must be an object")

// setSocial merges the given links into the existing ones.
func setSocial(c *Company, raw json.RawMessage) error {
	if string(raw) == "null" {
		c.Social = Social{}
		return nil
	}
	var links map[string]json.RawMessage
	if err := json.Unmarshal(raw, &links); err != nil {
		return errNotObject
	}
	return patch.Apply(&c.Social, links, socialFields, nil)
}

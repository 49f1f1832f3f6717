package accounts

import (
	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/sessions"
	"jobboard-backend/internal/shared/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// entityKey names the response field carrying an identity of role.
func entityKey(role string) string {
	if role == RoleCompany {
		return RoleCompany
	}
	return RoleUser
}

func identityClaims(ident Identity) auth.Claims {
	return auth.Claims{Sub: ident.ID, Role: ident.Role, Email: ident.Email, Name: ident.Name}
}

func authBody(key string, ident Identity, session *sessions.Session) gin.H {
	body := gin.H{key: ident}
	if session != nil {
		body["token"] = session.Token
		body["expiresAt"] = session.ExpiresAt
	}
	return body
}

package request

import (
	"strings"

	"pharmacy-hr/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
	ClientCLI    ClientType = "cli"
)

// ResolveClientType trusts X-Client-Type first, then sniffs the User-Agent.
func ResolveClientType(header, userAgent string) ClientType {
	switch ClientType(strings.ToLower(strings.TrimSpace(header))) {
	case ClientWeb:
		return ClientWeb
	case ClientMobile:
		return ClientMobile
	case ClientCLI:
		return ClientCLI
	}

	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return ClientCLI
	case strings.Contains(ua, "okhttp"), strings.Contains(ua, "dart"), strings.Contains(ua, "cfnetwork"):
		return ClientMobile
	case strings.HasPrefix(ua, "curl/"), strings.Contains(ua, "pharmacyctl"):
		return ClientCLI
	default:
		return ClientWeb
	}
}

func IsWebClient(t ClientType) bool {
	return t == ClientWeb
}

// Actor builds the caller from the keys AuthMiddleware puts on the gin context.
func Actor(c *gin.Context) (domain.Actor, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		return domain.Actor{}, false
	}
	role := domain.Role(c.GetString("role"))
	if !role.IsValid() {
		return domain.Actor{}, false
	}
	return domain.Actor{ID: id, Role: role}, true
}

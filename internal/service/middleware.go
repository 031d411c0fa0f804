package service

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/olha.reshka/contact-book/internal/model"
)

// userContextKey is the gin context key under which the authenticated user
// is stored for downstream handlers.
const userContextKey = "user"

// authenticate extracts the bearer token from the Authorization header,
// verifies signature and expiry, resolves the embedded user id against the
// database, and rejects tokens that are no longer the user's current session
// token. A login overwrites the stored token, so earlier tokens for the same
// user are refused here even if they have not expired yet; logout clears the
// stored token and has the same effect. On success the resolved user is
// attached to the request context.
func (s *Server) authenticate(c *gin.Context) {
	scheme, tokenString, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	userId, err := parseSessionToken(tokenString, s.cfg.SecretKey)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	var users []model.User
	if err := s.selectUserWhereId.Select(&users, userId); err != nil {
		s.internalError(c, err)
		return
	}
	if len(users) == 0 || users[0].Token != tokenString {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	c.Set(userContextKey, users[0])
	c.Next()
}

// contextUser returns the user that the authenticate middleware stored in
// the request context.
func contextUser(c *gin.Context) model.User {
	value, _ := c.Get(userContextKey)
	user, _ := value.(model.User)
	return user
}

// requireValidId checks that the id path parameter is a syntactically legal
// record key. A malformed id is answered with BAD REQUEST; NOT FOUND is
// reserved for well-formed ids that match no record.
func requireValidId(c *gin.Context) {
	if _, err := strconv.ParseInt(c.Param("id"), 10, 64); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid id parameter"})
		return
	}
	c.Next()
}

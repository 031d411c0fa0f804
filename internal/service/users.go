package service

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/olha.reshka/contact-book/internal/model"
)

// credentialsRequest is the request body for registration and login.
type credentialsRequest struct {
	Email        string `json:"email"        binding:"required,email,max=100"`
	Password     string `json:"password"     binding:"required,min=8,max=50"`
	Subscription string `json:"subscription" binding:"omitempty,oneof=starter pro business"`
}

// verifyRequest is the request body fallback for requesting a new
// verification mail; the email may also arrive as a URL parameter.
type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// verificationMail builds the transactional mail sent after registration and
// on explicit re-verification requests.
func verificationMail(to string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to your Contact Book!",
		HTML:    "To confirm your registration please click on the link",
		Text:    "To confirm your registration please open the link",
	}
}

// registerUser creates a new, unverified account. The password is stored as
// a bcrypt hash, the avatar URL is derived from the email address, and a
// fresh random verification token is issued. The verification mail is sent
// before the account is written; if the transport fails, registration does
// not complete and no record is persisted.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/register --request "POST" --header "Content-Type: application/json" --data '{"email": "erika@example.org", "password": "password1"}'
func (s *Server) registerUser(c *gin.Context) {
	var submitted credentialsRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	email := strings.ToLower(submitted.Email)

	var users []model.User
	if err := s.selectUserWhereEmail.Select(&users, email); err != nil {
		s.internalError(c, err)
		return
	}
	if len(users) > 0 {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "email in use"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(submitted.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(c, err)
		return
	}
	subscription := submitted.Subscription
	if subscription == "" {
		subscription = model.SubscriptionStarter
	}
	verificationToken := uuid.NewString()

	if err := s.mailer.Send(verificationMail(email)); err != nil {
		s.internalError(c, err)
		return
	}

	newUser := model.User{
		Email:             email,
		Password:          string(hash),
		Subscription:      subscription,
		AvatarURL:         gravatarURL(email),
		VerificationToken: sql.NullString{String: verificationToken, Valid: true},
	}
	if _, err := s.insertUser.Exec(&newUser); err != nil {
		s.internalError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, gin.H{
		"message":           "registration successful",
		"verificationToken": verificationToken,
	})
}

// loginUser checks the submitted credentials and, on success, issues a fresh
// session token and persists it as the user's current one. Any token from an
// earlier login stops working at that moment. The rejection message does not
// reveal whether the email or the password was wrong; an unverified account
// is rejected with a distinct message.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/login --request "POST" --header "Content-Type: application/json" --data '{"email": "erika@example.org", "password": "password1"}'
func (s *Server) loginUser(c *gin.Context) {
	var submitted credentialsRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	email := strings.ToLower(submitted.Email)

	var users []model.User
	if err := s.selectUserWhereEmail.Select(&users, email); err != nil {
		s.internalError(c, err)
		return
	}
	if len(users) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "email or password is wrong"})
		return
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(submitted.Password)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "email or password is wrong"})
		return
	}
	if !user.Verify {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "account is not verified"})
		return
	}

	token, err := signSessionToken(user.Id, s.cfg.SecretKey, s.cfg.TokenValidity)
	if err != nil {
		s.internalError(c, err)
		return
	}
	if _, err := s.db.Exec("UPDATE users SET token=? WHERE id=?", token, user.Id); err != nil {
		s.internalError(c, err)
		return
	}

	c.IndentedJSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"email":        user.Email,
			"subscription": user.Subscription,
		},
	})
}

// logoutUser clears the stored session token of the calling user, so the
// presented token is refused from now on.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/logout --request "POST" --header "Authorization: Bearer $TOKEN"
func (s *Server) logoutUser(c *gin.Context) {
	user := contextUser(c)
	if _, err := s.db.Exec("UPDATE users SET token='' WHERE id=?", user.Id); err != nil {
		s.internalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// showCurrentUser returns email and subscription of the calling user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/current --header "Authorization: Bearer $TOKEN"
func (s *Server) showCurrentUser(c *gin.Context) {
	user := contextUser(c)
	if user.Email == "" || user.Subscription == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{
		"user": gin.H{
			"email":        user.Email,
			"subscription": user.Subscription,
		},
	})
}

// verifyUser consumes a verification token: the matching account is marked
// verified and the token is cleared. The token is single-use; presenting it
// a second time finds no matching account and is answered with NOT FOUND.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/verify/3f1e5ed9-4c8a-4b6e-9a61-0d2f6a3e7b10
func (s *Server) verifyUser(c *gin.Context) {
	token := c.Param("token")
	var users []model.User
	if err := s.selectUserWhereVerTok.Select(&users, token); err != nil {
		s.internalError(c, err)
		return
	}
	if len(users) == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if _, err := s.db.Exec("UPDATE users SET verify=TRUE, verification_token=NULL WHERE id=?", users[0].Id); err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "verification successful"})
}

// sendVerifyEmail re-sends the verification mail for an unverified account,
// reusing the originally issued token. The email address is taken from the
// URL parameter or, as a fallback, from a JSON body. Requests for unknown or
// already verified accounts are rejected with BAD REQUEST.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/users/send-verify?email=erika@example.org"
func (s *Server) sendVerifyEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		var submitted verifyRequest
		if err := c.ShouldBindJSON(&submitted); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "email is required"})
			return
		}
		email = submitted.Email
	}
	email = strings.ToLower(email)

	var users []model.User
	if err := s.selectUserWhereEmail.Select(&users, email); err != nil {
		s.internalError(c, err)
		return
	}
	if len(users) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "missing required field email"})
		return
	}
	if users[0].Verify {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "verification has already been passed"})
		return
	}
	if err := s.mailer.Send(verificationMail(email)); err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "verification email sent"})
}

// updateAvatar stores a new avatar for the calling user. Without an uploaded
// file the default asset is assigned. An uploaded file is written to the
// temporary directory, decoded and resized to a fixed square, stored in the
// public avatars directory under a name derived from the user id and the
// original filename, and the temporary upload is removed.
//
// Example REST API call:
//
//	> curl http://localhost:8080/users/avatars --request "PATCH" --header "Authorization: Bearer $TOKEN" --form "avatar=@portrait.png"
func (s *Server) updateAvatar(c *gin.Context) {
	user := contextUser(c)

	file, err := c.FormFile("avatar")
	if err != nil {
		avatarURL := path.Join("avatars", defaultAvatarFile)
		if _, err := s.db.Exec("UPDATE users SET avatar_url=? WHERE id=?", avatarURL, user.Id); err != nil {
			s.internalError(c, err)
			return
		}
		c.IndentedJSON(http.StatusOK, gin.H{"avatarURL": avatarURL})
		return
	}

	if err := ensureDir(s.cfg.TempDir); err != nil {
		s.internalError(c, err)
		return
	}
	originalName := filepath.Base(file.Filename)
	tempUpload := filepath.Join(s.cfg.TempDir, uuid.NewString()+"_"+originalName)
	if err := c.SaveUploadedFile(file, tempUpload); err != nil {
		s.internalError(c, err)
		return
	}

	filename := fmt.Sprintf("%d_%s", user.Id, originalName)
	if err := resizeAvatar(tempUpload, filepath.Join(s.cfg.PublicDir, "avatars", filename)); err != nil {
		s.internalError(c, err)
		return
	}
	if err := os.Remove(tempUpload); err != nil {
		s.internalError(c, err)
		return
	}

	avatarURL := path.Join("avatars", filename)
	if _, err := s.db.Exec("UPDATE users SET avatar_url=? WHERE id=?", avatarURL, user.Id); err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"avatarURL": avatarURL})
}

package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/olha.reshka/contact-book/internal/model"
)

// contactRequest is the request body for creating or replacing a contact.
// Name, email and phone are required; a missing favorite defaults to false.
type contactRequest struct {
	Name     string `json:"name"  binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Favorite *bool  `json:"favorite"`
}

// favoriteRequest is the request body for toggling the favorite flag. The
// pointer distinguishes an explicit false from a missing field.
type favoriteRequest struct {
	Favorite *bool `json:"favorite" binding:"required"`
}

// findContacts responds with the list of all contacts as JSON. The list is
// not filtered by the calling user; contacts are shared across accounts.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --header "Authorization: Bearer $TOKEN"
func (s *Server) findContacts(c *gin.Context) {
	contacts := []model.Contact{}
	if err := s.db.Select(&contacts, "SELECT * FROM contacts"); err != nil {
		s.internalError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, contacts)
}

// findContactById locates the contact whose ID value matches the id parameter
// of the request URL, then returns that contact as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --header "Authorization: Bearer $TOKEN"
func (s *Server) findContactById(c *gin.Context) {
	id := c.Param("id")
	var contacts []model.Contact
	if err := s.selectContactWhereId.Select(&contacts, id); err != nil {
		s.internalError(c, err)
		return
	}
	if len(contacts) == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, contacts[0])
}

// createContact inserts the contact specified in the request's JSON into the
// database. It responds with the full contact data including the newly
// assigned id. Repeated calls create duplicates; creation is not idempotent.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts --request "POST" --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"name": "Hans Wurst", "email": "hans@example.org", "phone": "0815"}'
func (s *Server) createContact(c *gin.Context) {
	var submitted contactRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	newContact := model.Contact{
		Name:  submitted.Name,
		Email: submitted.Email,
		Phone: submitted.Phone,
	}
	if submitted.Favorite != nil {
		newContact.Favorite = *submitted.Favorite
	}
	result, err := s.insertContact.Exec(&newContact)
	if err != nil {
		s.internalError(c, err)
		return
	}
	id, err := result.LastInsertId()
	if err != nil {
		s.internalError(c, err)
		return
	}
	newContact.Id = id
	c.IndentedJSON(http.StatusCreated, newContact)
}

// updateContactById replaces name, email, phone and favorite of the contact
// whose ID value matches the id parameter of the request URL, and responds
// with the new version of the contact.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "PUT" --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"name": "Hans Wurst", "email": "hans@example.org", "phone": "81970"}'
func (s *Server) updateContactById(c *gin.Context) {
	id := c.Param("id")
	var submitted contactRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	favorite := false
	if submitted.Favorite != nil {
		favorite = *submitted.Favorite
	}
	_, err := s.db.Exec("UPDATE contacts SET name=?, email=?, phone=?, favorite=? WHERE id=?",
		submitted.Name, submitted.Email, submitted.Phone, favorite, id)
	if err != nil {
		s.internalError(c, err)
		return
	}

	// In the HTTP response, return the full contact after the update. An
	// update that changed nothing reports zero affected rows on MySQL, so
	// the select decides between OK and NOT FOUND.
	var contacts []model.Contact
	if err := s.selectContactWhereId.Select(&contacts, id); err != nil {
		s.internalError(c, err)
		return
	}
	if len(contacts) == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, contacts[0])
}

// deleteContactById deletes the contact whose ID value matches the id
// parameter of the request URL from the database.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56 --request "DELETE" --header "Authorization: Bearer $TOKEN"
func (s *Server) deleteContactById(c *gin.Context) {
	id := c.Param("id")
	result, err := s.deleteContactWhereId.Exec(id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.internalError(c, err)
		return
	}
	if rowsAffected == 1 {
		c.IndentedJSON(http.StatusOK, gin.H{"message": "contact deleted"})
	} else {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	}
}

// updateContactFavorite patches only the favorite flag of the contact whose
// ID value matches the id parameter of the request URL. A body without the
// favorite field is rejected; an explicit false is accepted.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/56/favorite --request "PATCH" --header "Authorization: Bearer $TOKEN" --header "Content-Type: application/json" --data '{"favorite": true}'
func (s *Server) updateContactFavorite(c *gin.Context) {
	id := c.Param("id")
	var submitted favoriteRequest
	if err := c.ShouldBindJSON(&submitted); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "missing or invalid favorite field"})
		return
	}
	_, err := s.db.Exec("UPDATE contacts SET favorite=? WHERE id=?", *submitted.Favorite, id)
	if err != nil {
		s.internalError(c, err)
		return
	}
	var contacts []model.Contact
	if err := s.selectContactWhereId.Select(&contacts, id); err != nil {
		s.internalError(c, err)
		return
	}
	if len(contacts) == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, contacts[0])
}

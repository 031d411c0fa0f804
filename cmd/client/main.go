package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/olha.reshka/contact-book/pkg/model"
)

const serverPort = 8080

// Smoke client that drives the full account and contact lifecycle against a
// running service: register, verify, login, contact CRUD, favorite toggle,
// logout.
//
// Usage example on the command line:
// > go run main.go
func main() {
	email := fmt.Sprintf("smoke%d@example.org", rand.Intn(1000000))
	password := "password1"

	var registered model.RegisterResponse
	body := sendRequest(http.MethodPost, "/users/register", "",
		fmt.Sprintf(`{"email": %q, "password": %q}`, email, password), http.StatusCreated)
	unmarshal(body, &registered)
	fmt.Println("registered:", email)

	sendRequest(http.MethodGet, "/users/verify/"+registered.VerificationToken, "", "", http.StatusOK)
	fmt.Println("verified")

	var login model.LoginResponse
	body = sendRequest(http.MethodPost, "/users/login", "",
		fmt.Sprintf(`{"email": %q, "password": %q}`, email, password), http.StatusCreated)
	unmarshal(body, &login)
	fmt.Println("logged in as:", login.User.Email, "/", login.User.Subscription)

	var contact model.Contact
	body = sendRequest(http.MethodPost, "/contacts", login.Token,
		`{"name": "Marcus Antonius", "email": "marcus@example.org", "phone": "+39 999 777 555"}`,
		http.StatusCreated)
	unmarshal(body, &contact)
	fmt.Println("created contact:", contact.Id)

	path := fmt.Sprintf("/contacts/%d", contact.Id)
	sendRequest(http.MethodGet, path, login.Token, "", http.StatusOK)

	sendRequest(http.MethodPut, path, login.Token,
		`{"name": "Marcus Antonius", "email": "marcus@example.org", "phone": "+39 111 222 333"}`,
		http.StatusOK)

	body = sendRequest(http.MethodPatch, path+"/favorite", login.Token, `{"favorite": true}`, http.StatusOK)
	unmarshal(body, &contact)
	fmt.Println("favorite:", contact.Favorite)

	sendRequest(http.MethodDelete, path, login.Token, "", http.StatusOK)
	fmt.Println("deleted contact")

	sendRequest(http.MethodPost, "/users/logout", login.Token, "", http.StatusNoContent)
	fmt.Println("logged out")
}

func sendRequest(method string, path string, token string, body string, wantStatus int) []byte {
	requestURL := fmt.Sprintf("http://localhost:%d%s", serverPort, path)
	var bodyReader io.Reader
	if body != "" {
		bodyReader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	before := time.Now()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	fmt.Printf("%-6s %-40s %d (%v)\n", method, path, res.StatusCode, time.Since(before))
	if res.StatusCode != wantStatus {
		panic(fmt.Sprintf("unexpected status %d for %s %s: %s", res.StatusCode, method, path, resBody))
	}
	return resBody
}

func unmarshal(data []byte, target any) {
	if err := json.Unmarshal(data, target); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
}

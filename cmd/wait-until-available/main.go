package main

import (
	"fmt"
	"net/http"
	"time"
)

// Polls the service until it answers HTTP requests. The contacts endpoint
// requires a session token, so an UNAUTHORIZED answer already proves that
// the service is up.
func main() {
	totalWaitTime := 0
	for {
		res, err := http.Get("http://localhost:8080/contacts")
		if err == nil {
			if res.StatusCode == http.StatusOK || res.StatusCode == http.StatusUnauthorized {
				fmt.Println(res)
				break
			} else {
				fmt.Println(res)
			}
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds", totalWaitTime)
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}

// cmd/main.go
package main

import (
	"go-notes-api/app"
)

// @title           Go-Notes API
// @version         1.0
// @description     Credential, session-token and note service for a note-taking application.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}

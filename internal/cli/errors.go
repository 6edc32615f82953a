package cli

import "github.com/trackly/tracker/internal/client"

// messageOf returns the user-facing text for err.
func messageOf(err error) string {
	return client.Message(err)
}

// ErrorMessage is what main prints for a failed command.
func ErrorMessage(err error) string {
	if client.IsAuth(err) {
		return messageOf(err) + " (run `tracker login`)"
	}
	return messageOf(err)
}

var errNotLoggedIn = &client.AuthError{Message: "not logged in"}

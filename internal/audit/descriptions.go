package audit

import "fmt"

func RegistrationDescription(username, email string) string {
	return fmt.Sprintf("User Name %s - Email: %s Registered", username, email)
}

func LoginDescription(username, email string) string {
	return fmt.Sprintf("User Name %s - Email: %s Logged In", username, email)
}

func PostCreatedDescription(username, title string) string {
	return postDescription(username, "Created", title)
}

func PostEditedDescription(username, title string) string {
	return postDescription(username, "Edited", title)
}

func PostDeletedDescription(username, title string) string {
	return postDescription(username, "Deleted", title)
}

func postDescription(username, verb, title string) string {
	return fmt.Sprintf("User Name %s - %s: %s Blog", username, verb, title)
}

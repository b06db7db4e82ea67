package model

// AccessToken is the object embedded in the bearer token issued by the
// identity service. The core only consumes it.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

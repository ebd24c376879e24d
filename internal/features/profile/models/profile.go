package models

// Profile is the snapshot of a stored user profile returned to API
// clients and kept in the cache. The social security number is only ever
// populated on the input path; snapshots built from storage leave it
// empty so it is omitted from every response.
type Profile struct {
	ID                   string `json:"id"`
	Username             string `json:"username"`
	Email                string `json:"email"`
	SocialSecurityNumber string `json:"socialSecurityNumber,omitempty"`
}

// CreateProfileRequest is the POST /users body.
type CreateProfileRequest struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	SocialSecurityNumber string `json:"socialSecurityNumber"`
}

// UpdateProfileRequest is the PUT /users/:id body. The social security
// number is not updatable.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

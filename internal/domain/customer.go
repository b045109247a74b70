package domain

// Customer is created once at onboarding and immutable afterwards.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

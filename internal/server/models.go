package server

// PlanRequest is the body of POST /api/plan.
type PlanRequest struct {
	UserGoal string `json:"user_goal"`
	Model    string `json:"model,omitempty"`
}

type AuthSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// RefreshResponse is returned by POST /api/ratings/refresh.
type RefreshResponse struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

// HTTPError mirrors the JSON error envelope of the global error handler.
type HTTPError struct {
	Error string `json:"error"`
}

package api

import "context"

// Register creates an account and returns the signed-in identity.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	var out AuthResult
	if err := c.post(ctx, "/auth/register", req, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

// Login exchanges credentials for an identity and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	var out AuthResult
	if err := c.post(ctx, "/auth/login", body, &out); err != nil {
		return AuthResult{}, err
	}
	return out, nil
}

// SendOTP asks the service to email a one-time code.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.post(ctx, "/auth/send-otp", body, nil)
}

// VerifyOTP confirms a one-time code for the given email.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	body := struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}{Email: email, OTP: otp}
	return c.post(ctx, "/auth/verify-otp", body, nil)
}

// Profile fetches the authenticated identity.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var out User
	if err := c.get(ctx, "/auth/profile", nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error) {
	var out User
	if err := c.put(ctx, "/auth/profile", req, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

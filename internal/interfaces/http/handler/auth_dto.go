package handler

// RegisterRequest represents a brand + owner registration request
// @Description Request body for registering a new brand with its owner account
type RegisterRequest struct {
	BrandCode    string `json:"brand_code" binding:"required,min=2,max=50" example:"ACME"`
	BrandName    string `json:"brand_name" binding:"required,min=1,max=200" example:"Acme Apparel"`
	Industry     string `json:"industry" binding:"required,oneof=fashion electronics food_beverage cosmetics pharmaceuticals automotive luxury_goods other" example:"fashion"`
	Username     string `json:"username" binding:"required,min=3,max=50" example:"jane.doe"`
	Email        string `json:"email" binding:"required,email,max=200" example:"jane@acme.example.com"`
	Password     string `json:"password" binding:"required,min=8,max=128" example:"s3cret-Passw0rd"`
	CaptchaToken string `json:"captcha_token" example:"0.4AAAA..."`
}

// LoginRequest represents a login request
// @Description Request body for authenticating a user
type LoginRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=50" example:"jane.doe"`
	Password     string `json:"password" binding:"required,min=1,max=128" example:"s3cret-Passw0rd"`
	CaptchaToken string `json:"captcha_token" example:"0.4AAAA..."`
}

// RefreshTokenRequest represents a token refresh request
// @Description Request body for rotating a token pair
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// ChangePasswordRequest represents a password change request
// @Description Request body for changing the authenticated user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required" example:"s3cret-Passw0rd"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128" example:"n3w-Passw0rd!"`
}
